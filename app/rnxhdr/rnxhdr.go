/*------------------------------------------------------------------------------
* rnxhdr.go : read, check, edit and rewrite rinex 3 observation headers
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* history : 2024/03/02 1.0 new
*           2024/04/18 1.1 add option -db, -push, -influx
*           2024/05/06 1.2 process input files in parallel
*           2024/06/11 1.3 add option -k (yaml configuration)
*-----------------------------------------------------------------------------*/

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gnssgo"
)

const (
	PRGNAME   = "RNXHDR"
	TRACEFILE = "rnxhdr.trace"
	TIMEOUT   = 30 * time.Second /* timeout of catalog/metrics output */
)

/* help text -----------------------------------------------------------------*/
var help []string = []string{
	"",
	" Synopsys",
	"",
	" rnxhdr [option ...] file [file ...]",
	"",
	" Description",
	"",
	" Read RINEX 3.00/3.01 observation file headers, check the mandatory records",
	" and print a one line summary per file. Headers can be edited and written",
	" out again, and the header catalog can be sent to ClickHouse, a Prometheus",
	" push gateway or InfluxDB. Input files may be gzip compressed (*.gz) or a",
	" serial port (serial://port:brate).",
	"",
	" Options [default]",
	"",
	"     file         input RINEX observation file",
	"     -k  file     yaml configuration file, options override it []",
	"     -d           print full header dump",
	"     -n           print number of header lines",
	"     -o  dir      write rewritten headers to directory []",
	"     -z           gzip rewritten headers",
	"     -hc comment  rinex header: comment line",
	"     -hm marker   rinex header: marker name",
	"     -hn markno   rinex header: marker number",
	"     -ht marktype rinex header: marker type",
	"     -ho observ   rinex header: oberver name and agency separated by /",
	"     -hr rec      rinex header: receiver number, type and version separated by /",
	"     -ha ant      rinex header: antenna number and type separated by /",
	"     -db dsn      write header catalog to clickhouse dsn []",
	"     -push url    push header metrics to prometheus gateway url []",
	"     -influx url  write header points to influxdb url []",
	"     -x  level    debug trace level (0:off) [0]",
}

/* print help ----------------------------------------------------------------*/
func printhelp() {
	fmt.Fprintf(os.Stderr, " %s\n %s\n", progName(), gnssgo.COPYRIGHT_GNSSGO)
	for i := range help {
		fmt.Fprintf(os.Stderr, "%s\n", help[i])
	}
	os.Exit(0)
}

func searchHelp(key string) string {
	for _, v := range help {
		if strings.Contains(v, key) {
			return v
		}
	}
	return "no surported augument"
}

type arrayFlags []string

func (i *arrayFlags) String() string {
	return ""
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type options struct {
	dump  bool /* print header dump */
	nline bool /* print number of header lines */
}

/* processing result of one file */
type result struct {
	file string
	out  string /* printed output */
	row  hdrRow
	err  error
}

/* parse command line options ------------------------------------------------*/
func cmdopts(cfg *config, opt *options) []string {
	var (
		conf, names, recs, ants string
		comments                arrayFlags
		edit                    editConfig
		trace                   int = -1
		gz                      bool
	)
	flag.Usage = printhelp
	flag.StringVar(&conf, "k", conf, searchHelp("-k"))
	flag.BoolVar(&opt.dump, "d", opt.dump, searchHelp("-d"))
	flag.BoolVar(&opt.nline, "n", opt.nline, searchHelp("-n"))
	flag.StringVar(&cfg.Output.Dir, "o", "", searchHelp("-o"))
	flag.BoolVar(&gz, "z", gz, searchHelp("-z"))
	flag.Var(&comments, "hc", searchHelp("-hc"))
	flag.StringVar(&edit.Marker, "hm", "", searchHelp("-hm"))
	flag.StringVar(&edit.MarkerNo, "hn", "", searchHelp("-hn"))
	flag.StringVar(&edit.MarkerType, "ht", "", searchHelp("-ht"))
	flag.StringVar(&names, "ho", names, searchHelp("-ho"))
	flag.StringVar(&recs, "hr", recs, searchHelp("-hr"))
	flag.StringVar(&ants, "ha", ants, searchHelp("-ha"))
	flag.StringVar(&cfg.Catalog.DSN, "db", "", searchHelp("-db"))
	flag.StringVar(&cfg.Metrics.PushURL, "push", "", searchHelp("-push"))
	flag.StringVar(&cfg.Influx.URL, "influx", "", searchHelp("-influx"))
	flag.IntVar(&trace, "x", trace, searchHelp("-x"))

	flag.Parse()

	if len(conf) > 0 {
		var err error
		if *cfg, err = loadConfig(conf); err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(-1)
		}
		/* options given on the command line override the configuration */
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "o":
				cfg.Output.Dir = f.Value.String()
			case "db":
				cfg.Catalog.DSN = f.Value.String()
			case "push":
				cfg.Metrics.PushURL = f.Value.String()
			case "influx":
				cfg.Influx.URL = f.Value.String()
			}
		})
	}
	if gz {
		cfg.Output.Gzip = true
	}
	if trace >= 0 {
		cfg.Trace.Level = trace
	}
	cfg.Edit.merge(&edit, comments, names, recs, ants)
	applyDefaults(cfg)
	return flag.Args()
}

/* merge command line header edits -------------------------------------------*/
func (e *editConfig) merge(o *editConfig, comments []string, names, recs, ants string) {
	e.Comment = append(e.Comment, comments...)
	if len(o.Marker) > 0 {
		e.Marker = o.Marker
	}
	if len(o.MarkerNo) > 0 {
		e.MarkerNo = o.MarkerNo
	}
	if len(o.MarkerType) > 0 {
		e.MarkerType = o.MarkerType
	}
	if len(names) > 0 {
		p := strings.Split(names, "/")
		e.Observer = p[0]
		if len(p) > 1 {
			e.Agency = p[1]
		}
	}
	if len(recs) > 0 {
		e.Receiver = strings.Split(recs, "/")
	}
	if len(ants) > 0 {
		e.Antenna = strings.Split(ants, "/")
	}
}

/* program of PGM / RUN BY / DATE in rewritten headers */
func progName() string {
	return fmt.Sprintf("%s ver.%s %s", PRGNAME, gnssgo.VER_GNSSGO, gnssgo.PATCH_LEVEL)
}

/* output file path of rewritten header --------------------------------------*/
func outPath(file string, cfg *config) string {
	base := strings.TrimSuffix(filepath.Base(file), ".gz")
	path := filepath.Join(cfg.Output.Dir, base+cfg.Output.Suffix)
	if cfg.Output.Gzip {
		path += ".gz"
	}
	return path
}

/* write header to file ------------------------------------------------------*/
func writeHeader(path string, hdr *gnssgo.Rnx3ObsHeader) error {
	wr, err := gnssgo.CreateLineStream(path)
	if err != nil {
		return err
	}
	if err = hdr.Write(wr); err != nil {
		wr.Close()
		os.Remove(path)
		return err
	}
	return wr.Close()
}

/* process one file ----------------------------------------------------------*/
func procFile(file string, cfg *config, opt *options) (res result) {
	var out bytes.Buffer
	res.file = file

	gnssgo.Trace(3, "procFile: file=%s\n", file)

	rd, err := gnssgo.OpenLineStream(file)
	if err != nil {
		res.err = err
		return
	}
	hdr, err := gnssgo.ReadRnx3ObsHeader(rd)
	rd.Close()
	if err != nil {
		res.err = err
		return
	}
	cfg.Edit.apply(hdr)
	res.row = newHdrRow(file, hdr)

	if opt.dump {
		if err = hdr.Dump(&out); err != nil {
			res.err = err
			return
		}
	}
	if opt.nline {
		fmt.Fprintf(&out, "%s: %d header lines\n", file, res.row.Lines)
	}
	if len(cfg.Output.Dir) > 0 {
		path := outPath(file, cfg)
		hdr.Prog, hdr.Date = progName(), "" /* date of rewrite */
		if err = writeHeader(path, hdr); err != nil {
			res.err = err
			return
		}
		fmt.Fprintf(&out, "%s: header written to %s\n", file, path)
	}
	fmt.Fprintf(&out, "%s: %.2f %s %-20s %d %d\n", file, res.row.Version, res.row.SatSys,
		res.row.Marker, res.row.NumObsSys, res.row.Lines)
	res.out = out.String()
	return
}

/* process files in parallel, results in input order -------------------------*/
func procFiles(files []string, cfg *config, opt *options) []result {
	var wg sync.WaitGroup
	res := make([]result, len(files))
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i] = procFile(files[i], cfg, opt)
		}(i)
	}
	wg.Wait()
	return res
}

/* catalog, metrics and influx outputs ---------------------------------------*/
func outRows(cfg *config, rows []hdrRow) int {
	var stat int
	if len(rows) == 0 {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), TIMEOUT)
	defer cancel()

	if len(cfg.Catalog.DSN) > 0 {
		if err := writeRows2ClickHouse(ctx, cfg.Catalog.DSN, cfg.Catalog.Table, rows); err != nil {
			showmsg("catalog error: %v", err)
			stat = -1
		}
	}
	if len(cfg.Metrics.PushURL) > 0 {
		if err := PushGaugeMetric(cfg.Metrics.PushURL, cfg.Metrics.Job, OutHdrMetrics(rows)...); err != nil {
			showmsg("metrics error: %v", err)
			stat = -1
		}
	}
	if len(cfg.Influx.URL) > 0 {
		if err := writeRows2Influx(ctx, cfg.Influx, rows); err != nil {
			showmsg("influx error: %v", err)
			stat = -1
		}
	}
	return stat
}

func showmsg(format string, v ...interface{}) int {
	fmt.Fprintf(os.Stderr, format, v...)
	if len(format) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
	}
	return 0
}

func main() {
	var (
		cfg  config
		opt  options
		rows []hdrRow
		stat int
	)
	gnssgo.ShowMsg_Ptr = showmsg

	files := cmdopts(&cfg, &opt)
	if len(files) == 0 {
		printhelp()
	}
	setupLogging(cfg)
	defer gnssgo.TraceClose()

	for _, res := range procFiles(files, &cfg, &opt) {
		if res.err != nil {
			gnssgo.ShowMsg_Ptr("%s: %v", res.file, res.err)
			stat = -1
			continue
		}
		fmt.Print(res.out)
		rows = append(rows, res.row)
	}
	if outRows(&cfg, rows) != 0 {
		stat = -1
	}
	if stat != 0 {
		gnssgo.TraceClose()
		os.Exit(-1)
	}
}
