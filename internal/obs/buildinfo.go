package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Set at link time with -ldflags "-X lifelink.org/internal/obs.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

var (
	buildInfoOnce sync.Once

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "LifeLink build information.",
		},
		[]string{"version", "commit"},
	)
)

// InitBuildInfo registers build_info once and sets it for version/commit.
func InitBuildInfo(version, commit string) {
	buildInfoOnce.Do(func() {
		prometheus.MustRegister(buildInfo)
	})
	buildInfo.WithLabelValues(version, commit).Set(1)
}
