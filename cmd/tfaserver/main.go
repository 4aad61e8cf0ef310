/*
Tfaserver starts the TFA analysis HTTP service and begins listening for
requests.

Usage:

	tfaserver [flags]
	tfaserver [flags] -l [[ADDRESS]:PORT]

By default it listens on localhost:8080. This can be changed with the
--listen/-l flag (or the TFA_LISTEN_ADDRESS environment variable).

If an operator key is not given, one is generated and printed once at
startup; it cannot be recovered afterward. If a JWT token secret is not
given, one is automatically generated and seeded from crypto/rand, meaning
all tokens become invalid as soon as the server shuts down -- suitable for
testing, but not for production use.

The flags are:

	-v, --version
		Give the current version of the toolkit and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the value of TFA_LISTEN_ADDRESS, or
		"localhost:8080" if that is unset.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Defaults to the
		value of TFA_TOKEN_SECRET, or a random secret if that is unset.

	-k, --operator-key KEY
		Use the provided operator key for authenticating analysis requests.
		Defaults to the value of TFA_OPERATOR_KEY, or a randomly generated
		key printed at startup if that is unset.

	-c, --cache FILE
		Use the given SQLite file to cache analysis results. Defaults to
		"tfa-cache.db" in the current working directory.
*/
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/arnelund/tfa/internal/store"
	"github.com/arnelund/tfa/internal/version"
	"github.com/arnelund/tfa/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen      = "TFA_LISTEN_ADDRESS"
	EnvSecret      = "TFA_TOKEN_SECRET"
	EnvOperatorKey = "TFA_OPERATOR_KEY"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of the toolkit and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for JWT signing.")
	flagOperator = pflag.StringP("operator-key", "k", "", "Use the given operator key for authentication.")
	flagCache    = pflag.StringP("cache", "c", "tfa-cache.db", "SQLite file used to cache analysis results.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	addr, port := resolveListenAddr()

	secret := resolveSecret()

	operatorKeyHash, err := resolveOperatorKeyHash()
	if err != nil {
		log.Fatalf("FATAL could not prepare operator key: %s", err.Error())
	}

	cache, err := store.Open(*flagCache)
	if err != nil {
		log.Fatalf("FATAL could not open analysis cache: %s", err.Error())
	}
	defer cache.Close()

	srv := server.New(operatorKeyHash, secret, cache)

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  Starting TFA analysis server %s on %s...", version.Current, listenAddr)
	log.Fatal(http.ListenAndServe(listenAddr, srv))
}

func resolveListenAddr() (string, int) {
	addr := "localhost"
	port := 8080

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return addr, port
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	var err error
	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
		os.Exit(1)
	}
	return bindParts[0], port
}

func resolveSecret() []byte {
	secretStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secretStr = *flagSecret
	}
	if secretStr != "" {
		return []byte(secretStr)
	}

	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("FATAL could not generate token secret: %s", err.Error())
	}
	log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	return secret
}

func resolveOperatorKeyHash() (string, error) {
	keyStr := os.Getenv(EnvOperatorKey)
	if pflag.Lookup("operator-key").Changed {
		keyStr = *flagOperator
	}

	if keyStr == "" {
		raw := make([]byte, 24)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("generating operator key: %w", err)
		}
		keyStr = base64.RawURLEncoding.EncodeToString(raw)
		log.Printf("WARN  Generated operator key (save it, it will not be shown again): %s", keyStr)
	}

	return server.NewOperatorKeyHash(keyStr)
}
