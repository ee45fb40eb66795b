package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 CLI 等宿主暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		ProviderRequestTotal, ProviderRequestDuration,
	)
}

// 请求结果标签值
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeNetwork   = "network_error"
	OutcomeMalformed = "malformed"
)

// ProviderRequestTotal provider 请求总数（按能力、provider、结果）
var ProviderRequestTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nlp_provider_requests_total",
		Help: "provider 请求总数",
	},
	[]string{"capability", "provider", "outcome"}, // capability: llm | embedding | translate
)

// ProviderRequestDuration provider 请求耗时（秒）
var ProviderRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nlp_provider_request_duration_seconds",
		Help:    "provider 请求耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"capability", "provider"},
)

// WritePrometheus 将 Prometheus 文本格式写入 w
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
