package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "nlp-gateway/pkg/errors"
)

// DefaultPromptsDir 默认系统提示目录
const DefaultPromptsDir = "prompts"

// Prompts 系统提示注册表：内存中的 name → text，缺失时回退到 <dir>/<name>.txt。
// map 由读写锁保护；文件读取不串行化，同名提示并发首次加载可能读两次文件，后写者生效。
type Prompts struct {
	mu      sync.RWMutex
	prompts map[string]string
	dir     string
}

// NewPrompts 创建注册表；dir 为空时使用 "prompts"
func NewPrompts(initial map[string]string, dir string) *Prompts {
	if dir == "" {
		dir = DefaultPromptsDir
	}
	prompts := make(map[string]string, len(initial))
	for k, v := range initial {
		prompts[k] = v
	}
	return &Prompts{prompts: prompts, dir: dir}
}

// Dir 返回提示目录
func (p *Prompts) Dir() string { return p.dir }

// Get 仅查询内存
func (p *Prompts) Get(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	text, ok := p.prompts[name]
	return text, ok
}

// Set 注册或替换内存中的提示
func (p *Prompts) Set(name, text string) {
	p.mu.Lock()
	p.prompts[name] = text
	p.mu.Unlock()
}

// Load 从 <dir>/<name>.txt 读取提示，不写入内存；文件不存在返回 ""。
// name 必须是单个本地路径元素，否则返回 ErrInvalidArg 且不访问文件系统
func (p *Prompts) Load(name string) (string, error) {
	if !ValidPromptName(name) {
		return "", fmt.Errorf("%w: prompt name %q", apperrors.ErrInvalidArg, name)
	}
	data, err := os.ReadFile(filepath.Join(p.dir, name+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read prompt %q: %w", name, err)
	}
	return string(data), nil
}

// ValidPromptName 提示名只能是目录内的单个文件名（不含分隔符、不含 ..）
func ValidPromptName(name string) bool {
	return filepath.IsLocal(name) && filepath.Base(name) == name
}

// Resolve 解析提示：内存中非空值优先；否则读文件，读到的非空内容缓存到内存
func (p *Prompts) Resolve(name string) (string, error) {
	if text, ok := p.Get(name); ok && text != "" {
		return text, nil
	}
	text, err := p.Load(name)
	if err != nil {
		return "", apperrors.Wrap(err, "resolve prompt")
	}
	if text != "" {
		p.Set(name, text)
	}
	return text, nil
}
