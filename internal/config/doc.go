// Package config provides configuration loading for the loom command.
//
// The configuration lives in loom.yaml (or loom.yml, or loom.json) in the
// working directory. Every field is optional.
//
// # Configuration File Structure
//
//	scheduler:
//	  yieldThreshold: 1ms
//	  frameInterval: 16ms
//	  idleBudget: 12ms
//	  queueSize: 256
//	server:
//	  address: localhost:7070
//	  metrics: true
//	  tracing: false
//	snapshot:
//	  target: s3://my-bucket/snapshots/demo.html
//	  region: eu-west-1
//	  pretty: true
//	log:
//	  level: info
//	  format: text
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
