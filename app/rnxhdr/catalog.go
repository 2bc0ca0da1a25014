package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"gnssgo"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

/* one catalog row per rinex header */
type hdrRow struct {
	Id        string    `db:"Id"`
	File      string    `db:"File"`
	Version   float64   `db:"Version"`
	SatSys    string    `db:"SatSys"`
	Marker    string    `db:"Marker"`
	MarkerNo  string    `db:"MarkerNo"`
	Receiver  string    `db:"Receiver"`
	Antenna   string    `db:"Antenna"`
	X         float64   `db:"X"`
	Y         float64   `db:"Y"`
	Z         float64   `db:"Z"`
	FirstObs  time.Time `db:"FirstObs"`
	LastObs   time.Time `db:"LastObs"`
	Interval  float64   `db:"Interval"`
	ObsTypes  string    `db:"ObsTypes"`
	NumObsSys int       `db:"NumObsSys"`
	NumSats   int       `db:"NumSats"`
	Lines     int       `db:"Lines"`
}

var hdrColumns = []string{"Id", "File", "Version", "SatSys", "Marker", "MarkerNo", "Receiver",
	"Antenna", "X", "Y", "Z", "FirstObs", "LastObs", "Interval", "ObsTypes", "NumObsSys",
	"NumSats", "Lines"}

func gtime2Time(t gnssgo.Gtime) time.Time {
	return time.Unix(int64(t.Time), int64(t.Sec*1e9)).UTC()
}

/* obs types as "G:C1C,L1C R:C1C" ---------------------------------------------*/
func obsTypesStr(hdr *gnssgo.Rnx3ObsHeader) string {
	var syss []string
	for _, sys := range hdr.ObsSystems() {
		codes := make([]string, 0, len(hdr.ObsTypes[sys]))
		for _, obs := range hdr.ObsTypes[sys] {
			codes = append(codes, obs.Code)
		}
		syss = append(syss, fmt.Sprintf("%c:%s", sys, strings.Join(codes, ",")))
	}
	return strings.Join(syss, " ")
}

func newHdrRow(file string, hdr *gnssgo.Rnx3ObsHeader) hdrRow {
	row := hdrRow{
		Id:        uuid.NewString(),
		File:      filepath.Base(file),
		Version:   hdr.Version,
		SatSys:    string(hdr.SatSys),
		Marker:    hdr.MarkerName,
		MarkerNo:  hdr.MarkerNumber,
		Receiver:  strings.TrimSpace(hdr.RecType + " " + hdr.RecVers),
		Antenna:   hdr.AntType,
		X:         hdr.AntPos[0],
		Y:         hdr.AntPos[1],
		Z:         hdr.AntPos[2],
		FirstObs:  gtime2Time(hdr.FirstObs.Time),
		Interval:  hdr.Interval,
		ObsTypes:  obsTypesStr(hdr),
		NumObsSys: len(hdr.ObsTypes),
		NumSats:   hdr.NumSats,
		Lines:     hdr.NumHeaderLines(),
	}
	if hdr.Valid.Has(gnssgo.HREC_LASTTIME) {
		row.LastObs = gtime2Time(hdr.LastObs.Time)
	}
	if !hdr.Valid.Has(gnssgo.HREC_NUMSATS) {
		row.NumSats = len(hdr.NumObsForSat)
	}
	return row
}

func insertStmt(table string) string {
	return fmt.Sprintf("insert into %s (%s)", table, strings.Join(hdrColumns, ", "))
}

func (r *hdrRow) values() []interface{} {
	return []interface{}{r.Id, r.File, r.Version, r.SatSys, r.Marker, r.MarkerNo, r.Receiver,
		r.Antenna, r.X, r.Y, r.Z, r.FirstObs, r.LastObs, r.Interval, r.ObsTypes, r.NumObsSys,
		r.NumSats, r.Lines}
}

/* write header rows to clickhouse -------------------------------------------*/
func writeRows2ClickHouse(ctx context.Context, dsn, table string, rows []hdrRow) error {
	client, err := sqlx.Open("clickhouse", dsn)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer client.Close()
	client.SetMaxOpenConns(4)
	client.SetMaxIdleConns(4)

	tx, err := client.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog batch: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, insertStmt(table))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i].values()...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", rows[i].File, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog batch: %w", err)
	}
	log.Printf("catalog: %d header rows written to %s\n", len(rows), table)
	return nil
}
