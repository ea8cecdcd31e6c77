/*
Ltsd starts the ltsd compile-history server and begins listening for new
connections.

Usage:

	ltsd [flags]
	ltsd [flags] -l [[ADDRESS]:PORT]

Once started, ltsd will listen for HTTP requests and respond to them using
REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag (or config via environment var).

If a JWT token secret is not given, one will be automatically generated and
seeded with crypto/rand. As a consequence, in this mode of operation all
tokens are rendered invalid as soon as the server shuts down. This is suitable
for testing, but a secret must be given via either the config file or
environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the ltsd server and then exit.

	-c, --config FILE
		Load server configuration from the given TOML file. If not given,
		will default to the value of environment variable LTSD_CONFIG.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable LTSD_LISTEN_ADDRESS, and if that is not given, will default
		to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable LTSD_TOKEN_SECRET. If no secret is specified, a
		random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If not
		given, will default to the value of environment variable
		LTSD_DATABASE. If no DB driver is specified, an in-memory database is
		automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dekarrin/ltsc/internal/version"
	"github.com/dekarrin/ltsc/server"
	"github.com/dekarrin/ltsc/server/dao"
	"github.com/dekarrin/ltsc/server/serr"
	"github.com/dekarrin/ltsc/server/tunas"
	"github.com/spf13/pflag"
)

const (
	EnvConfig = "LTSD_CONFIG"
	EnvListen = "LTSD_LISTEN_ADDRESS"
	EnvSecret = "LTSD_TOKEN_SECRET"
	EnvDB     = "LTSD_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the ltsd server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Load server config from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (ltsc v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("FATAL could not load config: %s", err.Error())
	}
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL invalid config: %s", err.Error())
	}

	addr, port := parseListenAddr()

	srv, err := server.New(cfg, fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	ensureInitialAdmin(srv.Store())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Printf("INFO  Shutting down...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("ERROR shutdown: %s", err.Error())
		}
	}()

	log.Printf("INFO  Starting ltsd server %s on %s:%d...", version.ServerCurrent, addr, port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("FATAL %s", err.Error())
	}
}

func loadConfig() (server.Config, error) {
	configFile := os.Getenv(EnvConfig)
	if pflag.Lookup("config").Changed {
		configFile = *flagConfig
	}

	var cfg server.Config
	if configFile != "" {
		var err error
		cfg, err = server.LoadFile(configFile)
		if err != nil {
			return server.Config{}, err
		}
	}

	if dbConnStr := envOrFlag(EnvDB, "db", flagDB); dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			return server.Config{}, fmt.Errorf("db: %w", err)
		}
		cfg.DB = db
	}

	if secretStr := envOrFlag(EnvSecret, "secret", flagSecret); secretStr != "" {
		cfg.TokenSecret = normalizeSecret([]byte(secretStr))
	} else if cfg.TokenSecret == nil {
		cfg.TokenSecret = make([]byte, 64)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			return server.Config{}, fmt.Errorf("generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	return cfg, nil
}

func envOrFlag(envVar, flagName string, flagVal *string) string {
	val := os.Getenv(envVar)
	if pflag.Lookup(flagName).Changed {
		val = *flagVal
	}
	return val
}

func normalizeSecret(secret []byte) []byte {
	for len(secret) < server.MinSecretSize {
		doubled := make([]byte, len(secret)*2)
		copy(doubled, secret)
		copy(doubled[len(secret):], secret)
		secret = doubled
	}
	if len(secret) > server.MaxSecretSize {
		secret = secret[:server.MaxSecretSize]
	}
	return secret
}

func parseListenAddr() (addr string, port int) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	parsedPort, err := strconv.Atoi(bindParts[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
		os.Exit(1)
	}

	return bindParts[0], parsedPort
}

// ensureInitialAdmin creates a default admin user so there is always someone
// to log in as on a freshly-initialized store.
func ensureInitialAdmin(db dao.Store) {
	svc := tunas.Service{DB: db}

	_, err := svc.CreateUser(context.Background(), "admin", "password", "admin@example.com", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		return
	}
	if err == nil {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}
}
