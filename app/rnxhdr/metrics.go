package main

import (
	"context"
	"fmt"
	"log"

	influxdb "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

/* header gauges ---------------------------------------------------------------
* lines, obs systems and satellites of each header, labeled by file and marker
*-----------------------------------------------------------------------------*/
func OutHdrMetrics(rows []hdrRow) []prometheus.Collector {
	labels := []string{"file", "marker", "sys"}
	lines := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnssgo_rnxhdr_header_lines",
			Help: "number of rinex header lines",
		}, labels)
	nsys := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnssgo_rnxhdr_obs_systems",
			Help: "number of systems with observation types",
		}, labels)
	nsat := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnssgo_rnxhdr_satellites",
			Help: "number of satellites with data",
		}, labels)

	for _, row := range rows {
		lines.WithLabelValues(row.File, row.Marker, row.SatSys).Set(float64(row.Lines))
		nsys.WithLabelValues(row.File, row.Marker, row.SatSys).Set(float64(row.NumObsSys))
		nsat.WithLabelValues(row.File, row.Marker, row.SatSys).Set(float64(row.NumSats))
	}
	return []prometheus.Collector{lines, nsys, nsat}
}

func PushGaugeMetric(url, job string, data ...prometheus.Collector) error {
	pusher := push.New(url, job)
	for _, c := range data {
		pusher.Collector(c)
	}
	if err := pusher.Push(); err != nil {
		return fmt.Errorf("push header metrics to %s: %w", url, err)
	}
	return nil
}

/* influx point of one header ------------------------------------------------*/
func hdrPoint(row hdrRow) *write.Point {
	return influxdb.NewPointWithMeasurement("rnxheader").
		AddTag("marker", row.Marker).
		AddTag("sys", row.SatSys).
		AddTag("file", row.File).
		AddField("version", row.Version).
		AddField("lines", row.Lines).
		AddField("nsys", row.NumObsSys).
		AddField("nsat", row.NumSats).
		AddField("interval", row.Interval).
		SetTime(row.FirstObs)
}

func writeRows2Influx(ctx context.Context, cfg influxConfig, rows []hdrRow) error {
	client := influxdb.NewClient(cfg.URL, cfg.Token)
	defer client.Close()
	writeAPI := client.WriteAPIBlocking(cfg.Org, cfg.Bucket)

	for _, row := range rows {
		if err := writeAPI.WritePoint(ctx, hdrPoint(row)); err != nil {
			return fmt.Errorf("write influx point %s: %w", row.File, err)
		}
	}
	log.Printf("influx: %d header points written to %s\n", len(rows), cfg.Bucket)
	return nil
}
