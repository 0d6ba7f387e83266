// Package config loads vtree.yaml, the optional configuration of the vtree
// CLI and stream server.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  writeTimeout: 10s
//	  readLimit: 65536
//	metrics:
//	  enabled: true
//	  namespace: vtree
//	tracing:
//	  tracerName: vtree
//	log:
//	  level: info
//
// Every field is optional; missing fields keep the defaults of New.
//
// # Usage
//
//	cfg, err := config.LoadOptional(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
