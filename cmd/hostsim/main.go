// Command hostsim is a stand-in for the Ciphora host process. It serves the
// websocket gateway the client speaks, holds an in-memory roster, generates
// and imports real PGP keys, and echoes canned replies so the client can be
// exercised without a peer network.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostsim_frames_received_total",
		Help: "Gateway frames received, by kind and name",
	}, []string{"kind", "name"})

	framesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostsim_frames_sent_total",
		Help: "Gateway frames sent, by kind and name",
	}, []string{"kind", "name"})

	chatsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hostsim_chats_active",
		Help: "Chats currently in the roster",
	})

	callErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostsim_call_errors_total",
		Help: "Failed gateway calls, by method",
	}, []string{"method"})
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The gateway is loopback-only; no origin policy needed
	CheckOrigin: func(r *http.Request) bool { return true },
}

func main() {
	listenAddr := flag.String("listen", ":6470", "Gateway listen address")
	metricsAddr := flag.String("metrics", ":9091", "Metrics listen address (internal only)")
	dataDir := flag.String("data", defaultDataDir(), "Directory for the stored identity")
	seedChats := flag.Bool("seed", false, "Start with a couple of seeded chats")
	flag.Parse()

	store := newIdentityStore(*dataDir)

	// Metrics HTTP server (internal only - never expose publicly!)
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		log.Printf("Metrics server listening on %s (/metrics, /health) - INTERNAL ONLY", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, metricsMux); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/gateway", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Upgrade failed: %v", err)
			return
		}
		session := newSession(conn, store, *seedChats)
		go session.run()
	})

	log.Printf("Host gateway listening on %s (/gateway)", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, mux); err != nil {
		log.Fatalf("Gateway server error: %v", err)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ciphora-hostsim"
	}
	return filepath.Join(home, ".local", "share", "ciphora-hostsim")
}
