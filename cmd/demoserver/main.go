// Command demoserver starts a local target server for exercising the
// fanout dispatcher.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kamalkashyapp/fanout/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Fanout Demo Server - Dispatch Targets")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This server provides predictable local endpoints")
	fmt.Println("for demonstrating concurrent batch dispatch.")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /ok            200 with an HTML body")
	fmt.Println("  GET  /created       201")
	fmt.Println("  GET  /status/{code} any status code")
	fmt.Println("  GET  /slow          delayed response (?d=2s to override)")
	fmt.Println("  POST /echo          reports received body size")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
