// Command requestrouting runs a minimal host that demonstrates wiring
// the interceptor in front of a stub legacy /dctserver.aspx handler,
// the way a real host application would. The host server and the
// legacy handler itself are out of this module's scope; this binary
// exists to exercise the library end to end.
package main

import (
	"net/http"
	"os"

	"github.com/dctlabs/requestrouting/config"
	"github.com/dctlabs/requestrouting/forwarder"
	"github.com/dctlabs/requestrouting/interceptor"
	"github.com/dctlabs/requestrouting/metrics"
	"github.com/dctlabs/requestrouting/routing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	var addr, metricsAddr, configFile string
	flags := &config.Flags{}

	pflag.StringVar(&addr, "address", ":8080", "address to listen on")
	pflag.StringVar(&metricsAddr, "metrics-address", ":9090", "address to serve Prometheus metrics on")
	pflag.StringVar(&configFile, "routing-config-file", "", "optional YAML file with routing config, overrides flags")
	flags.Register(pflag.CommandLine)
	pflag.Parse()

	var source routing.Source = flags
	if configFile != "" {
		fileSource, err := config.LoadFile(configFile)
		if err != nil {
			logrus.Fatalf("requestrouting: failed to load %s: %v", configFile, err)
		}
		source = fileSource
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ic := interceptor.New(source, forwarder.New(nil), m)
	legacy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<legacyResponse/>"))
	})

	mux := http.NewServeMux()
	mux.Handle(interceptor.InterceptedPath, ic.Wrap(legacy))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		logrus.Infof("requestrouting: serving metrics on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			logrus.Errorf("requestrouting: metrics listener stopped: %v", err)
		}
	}()

	logrus.Infof("requestrouting: listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.Errorf("requestrouting: listener stopped: %v", err)
		os.Exit(1)
	}
}
