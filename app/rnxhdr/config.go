package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gnssgo"

	"gopkg.in/yaml.v3"
)

type traceConfig struct {
	Level      int    `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

type outputConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
	Gzip   bool   `yaml:"gzip"`
}

/* literal header field replacements */
type editConfig struct {
	Comment    []string `yaml:"comment"`
	Marker     string   `yaml:"marker"`
	MarkerNo   string   `yaml:"markerNo"`
	MarkerType string   `yaml:"markerType"`
	Observer   string   `yaml:"observer"`
	Agency     string   `yaml:"agency"`
	Receiver   []string `yaml:"receiver"` /* number, type, version */
	Antenna    []string `yaml:"antenna"`  /* number, type */
}

type catalogConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

type metricsConfig struct {
	PushURL string `yaml:"pushURL"`
	Job     string `yaml:"job"`
}

type influxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

type config struct {
	Trace   traceConfig   `yaml:"trace"`
	Output  outputConfig  `yaml:"output"`
	Edit    editConfig    `yaml:"edit"`
	Catalog catalogConfig `yaml:"catalog"`
	Metrics metricsConfig `yaml:"metrics"`
	Influx  influxConfig  `yaml:"influx"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	baseDir := filepath.Dir(path)
	resolvePath := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Clean(filepath.Join(baseDir, p))
	}
	cfg.Trace.File = resolvePath(cfg.Trace.File)
	cfg.Output.Dir = resolvePath(cfg.Output.Dir)
	return cfg, nil
}

func applyDefaults(cfg *config) {
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = ".hdr"
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "RnxHeader"
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "gnssgo_rnxhdr"
	}
	if cfg.Influx.Org == "" {
		cfg.Influx.Org = "gnssgo"
	}
	if cfg.Influx.Bucket == "" {
		cfg.Influx.Bucket = "gnssgo"
	}
	if cfg.Trace.Level > 0 && cfg.Trace.File == "" {
		cfg.Trace.File = TRACEFILE
	}
	if cfg.Trace.MaxSizeMB <= 0 {
		cfg.Trace.MaxSizeMB = 16
	}
}

func setupLogging(cfg config) {
	if cfg.Trace.Level <= 0 {
		return
	}
	gnssgo.TraceOpenRotate(cfg.Trace.File, cfg.Trace.MaxSizeMB, cfg.Trace.MaxBackups,
		cfg.Trace.MaxAgeDays, cfg.Trace.Compress)
	gnssgo.TraceLevel(cfg.Trace.Level)
}

/* apply header edits (replacing a field marks it present) -------------------*/
func (e *editConfig) apply(hdr *gnssgo.Rnx3ObsHeader) {
	for _, comment := range e.Comment {
		hdr.AddComment(comment)
	}
	hdr.SetMarker(e.Marker, e.MarkerNo, e.MarkerType)
	if e.Observer != "" || e.Agency != "" {
		hdr.SetObserver(e.Observer, e.Agency)
	}
	if len(e.Receiver) > 0 {
		var rec [3]string
		copy(rec[:], e.Receiver)
		hdr.SetReceiver(rec[0], rec[1], rec[2])
	}
	if len(e.Antenna) > 0 {
		var ant [2]string
		copy(ant[:], e.Antenna)
		hdr.SetAntenna(ant[0], ant[1])
	}
}
