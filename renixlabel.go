/*------------------------------------------------------------------------------
* renixlabel.go : rinex 3 observation header labels and validity flags
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* references :
*     [1] W.Gurtner and L.Estey, RINEX The Receiver Independent Exchange Format
*         Version 3.00, November 28, 2007
*     [2] W.Gurtner and L.Estey, RINEX The Receiver Independent Exchange Format
*         Version 3.01, June 22, 2009
*
* history : 2024/03/02 1.0  new
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"fmt"
	"math"
	"strings"
)

// HdrRec is the kind of a rinex 3 observation header record.
type HdrRec int

const (
	HREC_VERSION    HdrRec = iota /* RINEX VERSION / TYPE */
	HREC_RUNBY                    /* PGM / RUN BY / DATE */
	HREC_COMMENT                  /* COMMENT */
	HREC_MARKERNAME               /* MARKER NAME */
	HREC_MARKERNUM                /* MARKER NUMBER */
	HREC_MARKERTYPE               /* MARKER TYPE */
	HREC_OBSERVER                 /* OBSERVER / AGENCY */
	HREC_RECEIVER                 /* REC # / TYPE / VERS */
	HREC_ANTTYPE                  /* ANT # / TYPE */
	HREC_ANTPOS                   /* APPROX POSITION XYZ */
	HREC_ANTDELHEN                /* ANTENNA: DELTA H/E/N */
	HREC_ANTDELXYZ                /* ANTENNA: DELTA X/Y/Z */
	HREC_ANTPHASECTR              /* ANTENNA: PHASECENTER */
	HREC_ANTBSIGHT                /* ANTENNA: B.SIGHT XYZ */
	HREC_ANTZDAZI                 /* ANTENNA: ZERODIR AZI */
	HREC_ANTZDXYZ                 /* ANTENNA: ZERODIR XYZ */
	HREC_CENTMASS                 /* CENTER OF MASS: XYZ */
	HREC_SYSOBSTYPE               /* SYS / # / OBS TYPES */
	HREC_SIGSTRUNIT               /* SIGNAL STRENGTH UNIT */
	HREC_INTERVAL                 /* INTERVAL */
	HREC_FIRSTTIME                /* TIME OF FIRST OBS */
	HREC_LASTTIME                 /* TIME OF LAST OBS */
	HREC_RCVCLKOFFS               /* RCV CLOCK OFFS APPL */
	HREC_SYSDCBS                  /* SYS / DCBS APPLIED */
	HREC_SYSPCVS                  /* SYS / PCVS APPLIED */
	HREC_SYSSCALE                 /* SYS / SCALE FACTOR */
	HREC_SYSPHSHIFT               /* SYS / PHASE SHIFTS */
	HREC_GLOSLOTFRQ               /* GLONASS SLOT / FRQ # */
	HREC_LEAPSECS                 /* LEAP SECONDS */
	HREC_NUMSATS                  /* # OF SATELLITES */
	HREC_PRNOBS                   /* PRN / # OF OBS */
	HREC_EOH                      /* END OF HEADER */
	NUMHREC                       /* number of record kinds */
)

const LABELLEN = 20 /* label field length */

var hdrLabels = [NUMHREC]string{
	"RINEX VERSION / TYPE",
	"PGM / RUN BY / DATE",
	"COMMENT",
	"MARKER NAME",
	"MARKER NUMBER",
	"MARKER TYPE",
	"OBSERVER / AGENCY",
	"REC # / TYPE / VERS",
	"ANT # / TYPE",
	"APPROX POSITION XYZ",
	"ANTENNA: DELTA H/E/N",
	"ANTENNA: DELTA X/Y/Z",
	"ANTENNA: PHASECENTER",
	"ANTENNA: B.SIGHT XYZ",
	"ANTENNA: ZERODIR AZI",
	"ANTENNA: ZERODIR XYZ",
	"CENTER OF MASS: XYZ",
	"SYS / # / OBS TYPES",
	"SIGNAL STRENGTH UNIT",
	"INTERVAL",
	"TIME OF FIRST OBS",
	"TIME OF LAST OBS",
	"RCV CLOCK OFFS APPL",
	"SYS / DCBS APPLIED",
	"SYS / PCVS APPLIED",
	"SYS / SCALE FACTOR",
	"SYS / PHASE SHIFTS",
	"GLONASS SLOT / FRQ #",
	"LEAP SECONDS",
	"# OF SATELLITES",
	"PRN / # OF OBS",
	"END OF HEADER",
}

var hdrNames = [NUMHREC]string{
	"version", "run by", "comment", "marker name", "marker number", "marker type",
	"observer", "receiver", "antenna type", "antenna position", "antenna delta HEN",
	"antenna delta XYZ", "antenna phase center", "antenna bore sight",
	"antenna zero dir azimuth", "antenna zero dir XYZ", "center of mass",
	"sys obs types", "signal strength unit", "interval", "first time", "last time",
	"receiver offset", "sys DCBS applied", "sys PCVS applied", "sys scale factor",
	"sys phase shift", "GLONASS freq", "leap seconds", "num satellites", "PRN obs",
	"end of header",
}

/* label lookup table (20 column padded label -> record kind) */
var hdrLabelIndex = func() map[string]HdrRec {
	m := make(map[string]HdrRec, NUMHREC)
	for i, label := range hdrLabels {
		m[fmt.Sprintf("%-20s", label)] = HdrRec(i)
	}
	return m
}()

/* label text of record kind (padded to 20 columns) --------------------------*/
func (rec HdrRec) Label() string {
	if rec < 0 || rec >= NUMHREC {
		return ""
	}
	return fmt.Sprintf("%-20s", hdrLabels[rec])
}

func (rec HdrRec) String() string {
	if rec < 0 || rec >= NUMHREC {
		return fmt.Sprintf("HdrRec(%d)", int(rec))
	}
	return hdrNames[rec]
}

/* record kind of label --------------------------------------------------------
* args   : string label     I   label field (columns 61-80, trailing blanks ok)
* return : record kind, status (false: unknown label)
*-----------------------------------------------------------------------------*/
func LookupLabel(label string) (HdrRec, bool) {
	if len(label) > LABELLEN {
		return 0, false
	}
	rec, ok := hdrLabelIndex[fmt.Sprintf("%-20s", label)]
	return rec, ok
}

// HdrValid records which header record kinds have been supplied.
type HdrValid [NUMHREC]bool

func (v *HdrValid) Set(rec HdrRec)   { v[rec] = true }
func (v *HdrValid) Unset(rec HdrRec) { v[rec] = false }
func (v *HdrValid) Reset()           { *v = HdrValid{} }

func (v HdrValid) Has(rec HdrRec) bool { return v[rec] }

/* every flag set in mask is set in v ----------------------------------------*/
func (v HdrValid) Contains(mask HdrValid) bool {
	return len(v.Missing(mask)) == 0
}

/* record kinds set in mask but not in v -------------------------------------*/
func (v HdrValid) Missing(mask HdrValid) []HdrRec {
	var missing []HdrRec
	for i := HdrRec(0); i < NUMHREC; i++ {
		if mask[i] && !v[i] {
			missing = append(missing, i)
		}
	}
	return missing
}

func (v HdrValid) String() string {
	var names []string
	for i := HdrRec(0); i < NUMHREC; i++ {
		if v[i] {
			names = append(names, i.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

func validMask(recs ...HdrRec) HdrValid {
	var v HdrValid
	for _, rec := range recs {
		v.Set(rec)
	}
	return v
}

var (
	hdrValidVer30 = validMask(HREC_VERSION, HREC_RUNBY, HREC_MARKERNAME, HREC_OBSERVER,
		HREC_RECEIVER, HREC_ANTTYPE, HREC_ANTPOS, HREC_ANTDELHEN, HREC_SYSOBSTYPE,
		HREC_FIRSTTIME, HREC_EOH)
	hdrValidVer301 = func() HdrValid {
		v := hdrValidVer30
		v.Set(HREC_SYSPHSHIFT)
		return v
	}()
)

/* supported format version ----------------------------------------------------
* args   : float64 ver      I   format version
* return : 3.0 or 3.01, status (false: unsupported)
*-----------------------------------------------------------------------------*/
func SupportedVersion(ver float64) (float64, bool) {
	for _, v := range []float64{3.0, 3.01} {
		if math.Abs(ver-v) < 1e-9 {
			return v, true
		}
	}
	return ver, false
}

/* required record kinds of format version -------------------------------------
* args   : float64 ver      I   format version (3.0 or 3.01)
* return : required mask, status (false: unsupported version)
*-----------------------------------------------------------------------------*/
func RequiredMask(ver float64) (HdrValid, bool) {
	v, ok := SupportedVersion(ver)
	if !ok {
		return HdrValid{}, false
	}
	if v == 3.01 {
		return hdrValidVer301, true
	}
	return hdrValidVer30, true
}
