package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gnssgo"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader(t *testing.T) *gnssgo.Rnx3ObsHeader {
	hdr := gnssgo.NewRnx3ObsHeader()
	hdr.Version = 3.01
	hdr.SatSys = 'M'
	hdr.Valid.Set(gnssgo.HREC_VERSION)
	hdr.Prog, hdr.RunBy, hdr.Date = "gnssgo 0.0.2", "GNSSGO", "20240302 101010 UTC"
	hdr.Valid.Set(gnssgo.HREC_RUNBY)
	hdr.SetMarker("WUH2", "21602M001", "")
	hdr.SetObserver("fxb", "WHU")
	hdr.SetReceiver("3001", "TRIMBLE NETR9", "5.45")
	hdr.SetAntenna("1441", "TRM59800.00     NONE")
	hdr.SetAntPos([3]float64{-2267750.1234, 5009154.5678, 3221294.9012})
	hdr.SetAntDelta([3]float64{0.0825, 0.0, 0.0})
	require.NoError(t, hdr.SetObsTypes('G', "C1C", "L1C", "C2W"))
	require.NoError(t, hdr.SetObsTypes('E', "C1C", "L1C"))
	hdr.FirstObs = gnssgo.RnxTime{
		Time: gnssgo.Epoch2Time([]float64{2024, 3, 2, 0, 0, 30}), TSys: gnssgo.TSYS_GPS}
	hdr.Valid.Set(gnssgo.HREC_FIRSTTIME)
	hdr.Interval = 30.0
	hdr.Valid.Set(gnssgo.HREC_INTERVAL)
	hdr.PhaseShift[gnssgo.ObsId{Sys: 'G', Code: "L1C"}] = map[gnssgo.SatId]float64{{Sys: 'G'}: 0.0}
	hdr.Valid.Set(gnssgo.HREC_SYSPHSHIFT)
	hdr.NumObsForSat[gnssgo.SatId{Sys: 'G', Prn: 1}] = []int{2880, 2880, 2870}
	hdr.NumObsForSat[gnssgo.SatId{Sys: 'E', Prn: 11}] = []int{1440, 1440}
	hdr.Valid.Set(gnssgo.HREC_PRNOBS)
	hdr.Valid.Set(gnssgo.HREC_EOH)
	return hdr
}

func writeTestFile(t *testing.T, path string, hdr *gnssgo.Rnx3ObsHeader) {
	wr, err := gnssgo.CreateLineStream(path)
	require.NoError(t, err)
	require.NoError(t, hdr.Write(wr))
	require.NoError(t, wr.Close())
}

/* yaml configuration */
func Test_confutest1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rnxhdr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"trace:",
		"  level: 2",
		"  file: log/rnxhdr.trace",
		"output:",
		"  dir: out",
		"  gzip: true",
		"edit:",
		"  comment: [\"edited by rnxhdr\"]",
		"  marker: WUHN",
		"  receiver: [\"\", \"SEPT POLARX5\"]",
		"catalog:",
		"  dsn: clickhouse://127.0.0.1:9000/gnss",
		"influx:",
		"  url: http://127.0.0.1:8086",
		"  bucket: rinex",
	}, "\n")), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	applyDefaults(&cfg)
	assert := assert.New(t)
	assert.Equal(2, cfg.Trace.Level)
	assert.Equal(filepath.Join(dir, "log", "rnxhdr.trace"), cfg.Trace.File)
	assert.Equal(16, cfg.Trace.MaxSizeMB)
	assert.Equal(filepath.Join(dir, "out"), cfg.Output.Dir)
	assert.Equal(".hdr", cfg.Output.Suffix)
	assert.True(cfg.Output.Gzip)
	assert.Equal("RnxHeader", cfg.Catalog.Table)
	assert.Equal("gnssgo_rnxhdr", cfg.Metrics.Job)
	assert.Equal("gnssgo", cfg.Influx.Org)
	assert.Equal("rinex", cfg.Influx.Bucket)
	assert.Equal([]string{"edited by rnxhdr"}, cfg.Edit.Comment)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(err)
	require.NoError(t, os.WriteFile(path, []byte("trace: [1, 2"), 0o644))
	_, err = loadConfig(path)
	assert.Error(err)

	cfg = config{Trace: traceConfig{Level: 1}}
	applyDefaults(&cfg)
	assert.Equal(TRACEFILE, cfg.Trace.File)
}

/* header edits */
func Test_confutest2(t *testing.T) {
	var edit editConfig
	edit.merge(&editConfig{Marker: "WUHN", MarkerType: "GEODETIC"}, []string{"c1", "c2"},
		"obs/agency", "3002/SEPT POLARX5/5.4.0", "/LEIAR25.R4      LEIT")

	hdr := testHeader(t)
	hdr.Valid.Unset(gnssgo.HREC_OBSERVER)
	edit.apply(hdr)

	assert := assert.New(t)
	assert.Equal([]string{"c1", "c2"}, hdr.Comments)
	assert.Equal("WUHN", hdr.MarkerName)
	assert.Equal("21602M001", hdr.MarkerNumber)
	assert.Equal("GEODETIC", hdr.MarkerType)
	assert.True(hdr.Valid.Has(gnssgo.HREC_MARKERTYPE))
	assert.Equal("obs", hdr.Observer)
	assert.Equal("agency", hdr.Agency)
	assert.True(hdr.Valid.Has(gnssgo.HREC_OBSERVER))
	assert.Equal("SEPT POLARX5", hdr.RecType)
	assert.Equal("5.4.0", hdr.RecVers)
	assert.Equal("", hdr.AntNo)
	assert.Equal("LEIAR25.R4      LEIT", hdr.AntType)

	/* empty edits leave the header alone */
	hdr = testHeader(t)
	(&editConfig{}).apply(hdr)
	assert.Equal(testHeader(t), hdr)
}

/* catalog rows */
func Test_catutest1(t *testing.T) {
	hdr := testHeader(t)
	row := newHdrRow("/data/wuh20620.24o.gz", hdr)

	assert := assert.New(t)
	assert.Len(row.Id, 36)
	assert.NotEqual(row.Id, newHdrRow("wuh20620.24o", hdr).Id)
	assert.Equal("wuh20620.24o.gz", row.File)
	assert.Equal(3.01, row.Version)
	assert.Equal("M", row.SatSys)
	assert.Equal("WUH2", row.Marker)
	assert.Equal("TRIMBLE NETR9 5.45", row.Receiver)
	assert.Equal("G:C1C,L1C,C2W E:C1C,L1C", row.ObsTypes)
	assert.Equal(2, row.NumObsSys)
	assert.Equal(2, row.NumSats)
	assert.Equal(hdr.NumHeaderLines(), row.Lines)
	assert.Equal(time.Date(2024, 3, 2, 0, 0, 30, 0, time.UTC), row.FirstObs)
	assert.True(row.LastObs.IsZero())
	assert.Equal(-2267750.1234, row.X)

	assert.Equal(len(hdrColumns), len(row.values()))
	stmt := insertStmt("RnxHeader")
	assert.True(strings.HasPrefix(stmt, "insert into RnxHeader (Id, File, Version"))
	assert.True(strings.HasSuffix(stmt, "NumSats, Lines)"))
}

/* metrics and influx points */
func Test_metricutest1(t *testing.T) {
	rows := []hdrRow{newHdrRow("wuh20620.24o", testHeader(t))}
	cs := OutHdrMetrics(rows)
	require.Len(t, cs, 3)

	lines, ok := cs[0].(*prometheus.GaugeVec)
	require.True(t, ok)
	assert.Equal(t, float64(rows[0].Lines), testutil.ToFloat64(lines.WithLabelValues("wuh20620.24o", "WUH2", "M")))
	nsys := cs[1].(*prometheus.GaugeVec)
	assert.Equal(t, 2.0, testutil.ToFloat64(nsys.WithLabelValues("wuh20620.24o", "WUH2", "M")))
	assert.Equal(t, 1, testutil.CollectAndCount(cs[2]))

	lp := write.PointToLineProtocol(hdrPoint(rows[0]), time.Second)
	assert.True(t, strings.HasPrefix(lp, "rnxheader,"))
	for _, s := range []string{"marker=WUH2", "sys=M", "file=wuh20620.24o", "nsys=2i", "interval=30",
		"version=3.01"} {
		assert.Contains(t, lp, s)
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lp), " 1709337630"))
}

/* process files */
func Test_procutest1(t *testing.T) {
	dir := t.TempDir()
	hdr := testHeader(t)
	in := filepath.Join(dir, "wuh20620.24o.gz")
	writeTestFile(t, in, hdr)
	bad := filepath.Join(dir, "bad.24o")
	require.NoError(t, os.WriteFile(bad, []byte("not a rinex header\n"), 0o644))

	cfg := config{Output: outputConfig{Dir: filepath.Join(dir, "out")}}
	cfg.Edit.Marker = "WUHN"
	applyDefaults(&cfg)
	opt := options{dump: true, nline: true}

	res := procFiles([]string{in, bad, filepath.Join(dir, "missing.24o")}, &cfg, &opt)
	require.Len(t, res, 3)
	assert := assert.New(t)
	require.NoError(t, res[0].err)
	assert.Error(res[1].err)
	assert.ErrorIs(res[1].err, gnssgo.ErrMalformedLine)
	assert.Error(res[2].err)

	assert.Contains(res[0].out, "(This header is VALID)")
	assert.Contains(res[0].out, "header lines")
	assert.Contains(res[0].out, in+": 3.01 M WUHN")
	assert.Equal("WUHN", res[0].row.Marker)

	out := filepath.Join(dir, "out", "wuh20620.24o.hdr")
	assert.Equal(out, outPath(in, &cfg))
	rd, err := gnssgo.OpenLineStream(out)
	require.NoError(t, err)
	dec, err := gnssgo.ReadRnx3ObsHeader(rd)
	require.NoError(t, err)
	require.NoError(t, rd.Close())
	assert.Equal("WUHN", dec.MarkerName)
	assert.Equal(hdr.ObsTypes, dec.ObsTypes)
	assert.Equal("RNXHDR ver."+gnssgo.VER_GNSSGO+" "+gnssgo.PATCH_LEVEL, dec.Prog)
	assert.Equal("GNSSGO", dec.RunBy)
	assert.Regexp(`^\d{8} \d{6} UTC$`, dec.Date)
	assert.NotEqual(hdr.Date, dec.Date)

	cfg.Output.Gzip = true
	assert.Equal(out+".gz", outPath(in, &cfg))

	/* nothing to send */
	assert.Equal(0, outRows(&cfg, []hdrRow{res[0].row}))
	assert.Equal(0, outRows(&cfg, nil))
}
