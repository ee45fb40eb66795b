package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"nlp-gateway/internal/model/embedding"
	"nlp-gateway/internal/model/llm"
	"nlp-gateway/pkg/metrics"
)

const version = "nlp-gateway cli 0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "version":
		fmt.Println(version)
	case "config":
		err = runConfig(args)
	case "generate":
		err = runGenerate(ctx, args)
	case "translate":
		err = runTranslate(ctx, args)
	case "embed":
		err = runEmbed(ctx, args)
	case "pipeline":
		err = runPipelineCmd(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: nlpctl <command> [flags] [args]")
	fmt.Println("  version                         - 显示版本")
	fmt.Println("  config                          - 显示生效的配置概要（密钥已隐藏）")
	fmt.Println("  generate [--prompt name] <text> - 调用 LLM 生成回复")
	fmt.Println("  translate [--from ru --to en] <text> - 翻译文本")
	fmt.Println("  embed [--long] <text>           - 计算向量并输出维度")
	fmt.Println("  pipeline [query]                - 生成 → 翻译 → 向量化 演示")
	fmt.Println("Common flags: --config <path>  --env <file>  --metrics")
}

// commonFlags 各子命令共用的参数
type commonFlags struct {
	configPath string
	envFile    string
	metrics    bool
}

func newFlagSet(name string) (*pflag.FlagSet, *commonFlags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", "", "配置文件路径（默认 configs/nlp.yaml，不存在时仅用环境变量）")
	fs.StringVar(&c.envFile, "env", ".env", "启动前加载的 .env 文件")
	fs.BoolVar(&c.metrics, "metrics", false, "结束时输出 Prometheus 指标")
	return fs, c
}

func dumpMetrics(c *commonFlags) {
	if !c.metrics {
		return
	}
	if err := metrics.WritePrometheus(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "write metrics: %v\n", err)
	}
}

func runConfig(args []string) error {
	fs, common := newFlagSet("config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(common)
	if err != nil {
		return err
	}
	fmt.Printf("llm.provider=%s\n", cfg.LLM.Provider)
	fmt.Printf("llm.model=%s\n", cfg.LLM.Model)
	fmt.Printf("llm.api_key=%s\n", mask(cfg.LLM.APIKey))
	fmt.Printf("embedding.provider=%s\n", cfg.Embedding.Provider)
	fmt.Printf("embedding.model=%s\n", cfg.Embedding.Model)
	fmt.Printf("translation.provider=%s\n", cfg.Translation.Provider)
	fmt.Printf("translation.token=%s\n", mask(cfg.Translation.Token))
	fmt.Printf("prompts.dir=%s\n", cfg.Prompts.Dir)
	fmt.Printf("http.timeout=%s\n", cfg.HTTP.Timeout)
	return nil
}

func runGenerate(ctx context.Context, args []string) error {
	fs, common := newFlagSet("generate")
	prompt := fs.String("prompt", "", "系统提示名（默认 default）")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return fmt.Errorf("usage: nlpctl generate [--prompt name] <text>")
	}
	b, err := newBootstrap(ctx, common)
	if err != nil {
		return err
	}
	defer shutdown(ctx, b)
	defer dumpMetrics(common)

	if b.Models.LLM == nil {
		return fmt.Errorf("llm.provider is not configured")
	}
	out, err := b.Models.LLM.Generate(ctx, text, llm.GenerateOptions{SystemPromptName: *prompt})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runTranslate(ctx context.Context, args []string) error {
	fs, common := newFlagSet("translate")
	from := fs.String("from", "ru", "源语言代码")
	to := fs.String("to", "en", "目标语言代码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return fmt.Errorf("usage: nlpctl translate [--from ru --to en] <text>")
	}
	b, err := newBootstrap(ctx, common)
	if err != nil {
		return err
	}
	defer shutdown(ctx, b)
	defer dumpMetrics(common)

	if b.Models.Translator == nil {
		return fmt.Errorf("translation.provider is not configured")
	}
	out, err := b.Models.Translator.Translate(ctx, text, *from, *to)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runEmbed(ctx context.Context, args []string) error {
	fs, common := newFlagSet("embed")
	long := fs.Bool("long", false, "按文档（长文本）模型嵌入")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return fmt.Errorf("usage: nlpctl embed [--long] <text>")
	}
	b, err := newBootstrap(ctx, common)
	if err != nil {
		return err
	}
	defer shutdown(ctx, b)
	defer dumpMetrics(common)

	if b.Models.Embedder == nil {
		return fmt.Errorf("embedding.provider is not configured")
	}
	var vec []float64
	if *long {
		vec, err = b.Models.Embedder.EmbedLong(ctx, text, embedding.Options{})
	} else {
		vec, err = b.Models.Embedder.EmbedShort(ctx, text, embedding.Options{})
	}
	if err != nil {
		return err
	}
	fmt.Printf("dim=%d\n", len(vec))
	return nil
}

func runPipelineCmd(ctx context.Context, args []string) error {
	fs, common := newFlagSet("pipeline")
	prompt := fs.String("prompt", defaultPipelinePrompt, "系统提示名，启动时从提示目录预加载")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if query == "" {
		query = defaultPipelineQuery
	}
	b, err := newBootstrap(ctx, common)
	if err != nil {
		return err
	}
	defer shutdown(ctx, b)
	defer dumpMetrics(common)

	return runPipeline(ctx, b.Models, b.Logger, os.Stdout, query, *prompt)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
