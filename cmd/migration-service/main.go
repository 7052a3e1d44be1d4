package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/romankudravcev/migration-service/internal/api"
	"github.com/romankudravcev/migration-service/internal/config"
	"github.com/romankudravcev/migration-service/internal/migration"
	"github.com/romankudravcev/migration-service/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("migration-service %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		}
	}

	cfg := config.Parse()

	server := &api.Server{
		Jobs: models.NewJobStore(),
		Proxy: migration.ProxyOptions{
			ManifestURL: cfg.Proxy.ManifestURL,
			Port:        cfg.Proxy.Port,
			Namespace:   cfg.Proxy.Namespace,
		},
	}

	fmt.Printf("Migration service %s starting on %s\n", version, cfg.Listen)
	fmt.Printf("Cutover proxy: port %d, namespace %q, manifest %s\n",
		cfg.Proxy.Port, cfg.Proxy.Namespace, cfg.Proxy.ManifestURL)

	if err := http.ListenAndServe(cfg.Listen, api.NewRouter(server)); err != nil {
		log.Fatal(err)
	}
}
