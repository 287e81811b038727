package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

// Bootstrap initializes the global tracer from JAEGER_* environment
// variables. Without a configured agent the tracer degrades to a noop
// reporter and request handling is unaffected.
func Bootstrap(serviceName string) io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warnln("failed to load tracing config from env", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Metrics(metrics.NullFactory))
	if err != nil {
		logrus.Warnln("failed to build tracer", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
