package gnssgo

// 定义Gnss的基本数据类型

// some macro definition
const (
	VER_GNSSGO       = "0.0.2" /* library version */
	PATCH_LEVEL      = "001"   /* patch level */
	COPYRIGHT_GNSSGO = "Copyright (C) 2022-2023 Feng Xuebin\nAll rights reserved."
)

const (
	TSYS_GPS  = 0 /* time system: GPS time */
	TSYS_UTC  = 1 /* time system: UTC */
	TSYS_GLO  = 2 /* time system: GLONASS time */
	TSYS_GAL  = 3 /* time system: Galileo time */
	TSYS_QZS  = 4 /* time system: QZSS time */
	TSYS_CMP  = 5 /* time system: BeiDou time */
	TSYS_IRN  = 6 /* time system: IRNSS time */
	TSYS_TAI  = 7 /* time system: TAI */
	TSYS_NONE = 8 /* time system: not given */

	MAXPRNRNX = 99 /* max slot number in a RINEX satellite id */
)

const (
	RNXSYS_GPS   = 'G' /* RINEX system code: GPS */
	RNXSYS_GLO   = 'R' /* RINEX system code: GLONASS */
	RNXSYS_GAL   = 'E' /* RINEX system code: Galileo */
	RNXSYS_SBS   = 'S' /* RINEX system code: SBAS payload */
	RNXSYS_QZS   = 'J' /* RINEX system code: QZSS */
	RNXSYS_CMP   = 'C' /* RINEX system code: BeiDou */
	RNXSYS_IRN   = 'I' /* RINEX system code: IRNSS */
	RNXSYS_MIXED = 'M' /* RINEX system code: mixed */
)

var tsysstrs = [...]string{"GPS", "UTC", "GLO", "GAL", "QZS", "BDT", "IRN", "TAI", ""} /* indexed by TSYS_??? */

type Gtime struct {
	Time uint64 /* time (s) expressed by standard time_t */

	Sec float64 /* fraction of second under 1 s */
}

// RnxTime is a calendar epoch tagged with the time system it is expressed in.
type RnxTime struct {
	Time Gtime
	TSys int /* time system (TSYS_???) */
}

// SatId identifies a satellite by RINEX system letter and slot number.
// Prn 0 stands for every satellite of the system.
type SatId struct {
	Sys byte
	Prn int
}

// ObsId is a 3-character RINEX 3 observation code qualified by its system letter.
type ObsId struct {
	Sys  byte
	Code string
}

// RnxCorrInfo describes one applied DCB or PCV correction.
type RnxCorrInfo struct {
	Sys    byte   /* system letter */
	Name   string /* program name used to apply corrections */
	Source string /* source of corrections (url) */
}
