/*------------------------------------------------------------------------------
* renixdec.go : rinex 3 observation header decoder
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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	MAXDECOBSLINE = 13 /* max obs codes in a SYS / # / OBS TYPES line */
	MAXDECSFLINE  = 12 /* max obs codes in a SYS / SCALE FACTOR line */
	MAXDECPSLINE  = 10 /* max satellites in a SYS / PHASE SHIFTS line */
	MAXDECFCNLINE = 8  /* max satellites in a GLONASS SLOT / FRQ # line */
	MAXDECPRNLINE = 9  /* max obs counts in a PRN / # OF OBS line */
	RNXHDRMINLEN  = 60 /* min header line length */
	RNXHDRMAXLEN  = 80 /* max header line length */
)

/* state carried across continuation lines of one decode session */
type hdrParseCtx struct {
	obsSys  byte /* system of last SYS / # / OBS TYPES */
	obsNum  int  /* declared number of obs codes */
	sfSys   byte /* system of last SYS / SCALE FACTOR */
	sfFac   int  /* scale factor */
	sfNum   int  /* declared number of obs codes */
	sfDone  int  /* obs codes read so far */
	psObs   ObsId
	psCorr  float64
	psLeft  int /* satellites still expected on continuation lines */
	lastSat SatId
}

// hdrLine is one header line padded to 80 columns.
type hdrLine struct {
	text string
	rec  HdrRec
}

func (l hdrLine) str(pos, n int) string {
	return l.text[pos : pos+n]
}

func (l hdrLine) trim(pos, n int) string {
	return strings.TrimSpace(l.text[pos : pos+n])
}

/* blank numeric fields read as 0 --------------------------------------------*/
func (l hdrLine) float(name string, pos, n int) (float64, error) {
	v, err := str2num(l.text, pos, n)
	if err != nil {
		return 0.0, fieldError(l.rec, name, l.str(pos, n), err)
	}
	return v, nil
}

func (l hdrLine) int(name string, pos, n int) (int, error) {
	v, err := str2int(l.text, pos, n)
	if err != nil {
		return 0, fieldError(l.rec, name, l.str(pos, n), err)
	}
	return v, nil
}

func (l hdrLine) vec(name string) ([3]float64, error) {
	var v [3]float64
	for i := 0; i < 3; i++ {
		var err error
		if v[i], err = l.float(name, 14*i, 14); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (l hdrLine) sys(name string) (byte, error) {
	sys := l.text[0]
	if strings.IndexByte(rnxsyscodes, sys) < 0 {
		return 0, fieldError(l.rec, name, l.str(0, 1), fmt.Errorf("unknown system"))
	}
	return sys, nil
}

func (l hdrLine) obs(sys byte, pos int) (ObsId, error) {
	obs, err := ParseObsId(sys, l.str(pos, 3))
	if err != nil {
		return obs, fieldError(l.rec, "obs code", l.str(pos, 3), err)
	}
	return obs, nil
}

func (l hdrLine) sat(pos int) (SatId, error) {
	sat, err := ParseSatId(l.str(pos, 3))
	if err != nil {
		return sat, fieldError(l.rec, "satellite", l.str(pos, 3), err)
	}
	return sat, nil
}

func continuationError(rec HdrRec) *HdrError {
	return newHdrError(ErrUnexpectedContinuation, rec)
}

/* read rinex 3 observation header ---------------------------------------------
* read header lines up to END OF HEADER and check completeness
* args   : LineReader rd    I   line stream positioned at the first header line
* return : error (*HdrError for header errors)
* notes  : header is cleared first. on error the header is partially filled
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Read(rd LineReader) error {
	var ctx hdrParseCtx

	hdr.Clear()

	for !hdr.Valid.Has(HREC_EOH) {
		line, err := rd.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				e := newHdrError(ErrMalformedLine, -1)
				e.Line, e.Err = rd.LineNum()+1, fmt.Errorf("no END OF HEADER")
				Trace(2, "readrnx3obsh: %v\n", e)
				return e
			}
			return fmt.Errorf("read header line %d: %w", rd.LineNum()+1, err)
		}
		if err = hdr.decodeLine(&ctx, line); err != nil {
			var e *HdrError
			if errors.As(err, &e) {
				e.Line = rd.LineNum()
			}
			Trace(2, "readrnx3obsh: %v\n", err)
			return err
		}
	}
	ver, ok := SupportedVersion(hdr.Version)
	if !hdr.Valid.Has(HREC_VERSION) {
		e := newHdrError(ErrIncompleteHeader, -1)
		e.Missing = []HdrRec{HREC_VERSION}
		return e
	}
	if !ok {
		e := newHdrError(ErrUnsupportedVersion, HREC_VERSION)
		e.Field, e.Text = "version", strconv.FormatFloat(hdr.Version, 'f', 2, 64)
		Trace(2, "readrnx3obsh: %v\n", e)
		return e
	}
	hdr.Version = ver
	mask, _ := RequiredMask(ver)
	if missing := hdr.Valid.Missing(mask); len(missing) > 0 {
		e := newHdrError(ErrIncompleteHeader, -1)
		e.Missing = missing
		e.Detail = hdr.validityLines(mask)
		Trace(2, "readrnx3obsh: %v\n", e)
		return e
	}
	Trace(4, "readrnx3obsh: ver=%.2f sys=%c lines=%d\n", hdr.Version, hdr.SatSys, rd.LineNum())
	return nil
}

/* read rinex 3 observation header into a new header -------------------------*/
func ReadRnx3ObsHeader(rd LineReader) (*Rnx3ObsHeader, error) {
	hdr := NewRnx3ObsHeader()
	if err := hdr.Read(rd); err != nil {
		return nil, err
	}
	return hdr, nil
}

/* decode one header line ----------------------------------------------------*/
func (hdr *Rnx3ObsHeader) decodeLine(ctx *hdrParseCtx, line string) error {
	line = strings.TrimRight(line, " \t\r\n")
	if len(line) == 0 {
		e := newHdrError(ErrMalformedLine, -1)
		e.Err = fmt.Errorf("no data read")
		return e
	}
	if len(line) < RNXHDRMINLEN || len(line) > RNXHDRMAXLEN {
		e := newHdrError(ErrMalformedLine, -1)
		e.Err = fmt.Errorf("invalid line length %d", len(line))
		return e
	}
	text := fmt.Sprintf("%-80s", line)
	label := text[RNXHDRMINLEN:RNXHDRMAXLEN]
	rec, ok := LookupLabel(label)
	if !ok {
		e := newHdrError(ErrUnknownLabel, -1)
		e.Label = label
		return e
	}
	Trace(5, "decodeline: %s\n", strings.TrimSpace(label))

	l := hdrLine{text: text, rec: rec}
	if err := hdr.decodeRecord(ctx, l); err != nil {
		if e, ok := err.(*HdrError); ok && e.Label == "" {
			e.Label = label
		}
		return err
	}
	hdr.Valid.Set(rec)
	return nil
}

/* decode fields of one record -----------------------------------------------*/
func (hdr *Rnx3ObsHeader) decodeRecord(ctx *hdrParseCtx, l hdrLine) error {
	var err error

	switch l.rec {
	case HREC_VERSION:
		return hdr.decodeVersion(l)
	case HREC_RUNBY:
		hdr.Prog, hdr.RunBy, hdr.Date = l.trim(0, 20), l.trim(20, 20), l.trim(40, 20)
	case HREC_COMMENT:
		hdr.Comments = append(hdr.Comments, strings.TrimRight(l.str(0, 60), " "))
	case HREC_MARKERNAME:
		hdr.MarkerName = l.trim(0, 60)
	case HREC_MARKERNUM:
		hdr.MarkerNumber = l.trim(0, 20)
	case HREC_MARKERTYPE:
		hdr.MarkerType = l.trim(0, 20)
	case HREC_OBSERVER:
		hdr.Observer, hdr.Agency = l.trim(0, 20), l.trim(20, 40)
	case HREC_RECEIVER:
		hdr.RecNo, hdr.RecType, hdr.RecVers = l.trim(0, 20), l.trim(20, 20), l.trim(40, 20)
	case HREC_ANTTYPE:
		hdr.AntNo, hdr.AntType = l.trim(0, 20), l.trim(20, 20)
	case HREC_ANTPOS:
		hdr.AntPos, err = l.vec("position")
	case HREC_ANTDELHEN:
		hdr.AntDelHEN, err = l.vec("delta")
	case HREC_ANTDELXYZ:
		hdr.AntDelXYZ, err = l.vec("delta")
	case HREC_ANTPHASECTR:
		return hdr.decodePhaseCenter(l)
	case HREC_ANTBSIGHT:
		hdr.AntBsight, err = l.vec("bore sight")
	case HREC_ANTZDAZI:
		hdr.AntZeroDirAzi, err = l.float("azimuth", 0, 14)
	case HREC_ANTZDXYZ:
		hdr.AntZeroDirXYZ, err = l.vec("zero direction")
	case HREC_CENTMASS:
		hdr.CenterOfMass, err = l.vec("center of mass")
	case HREC_SYSOBSTYPE:
		return hdr.decodeObsTypes(ctx, l)
	case HREC_SIGSTRUNIT:
		hdr.SigStrengthUnit = l.trim(0, 20)
	case HREC_INTERVAL:
		hdr.Interval, err = l.float("interval", 0, 10)
	case HREC_FIRSTTIME:
		hdr.FirstObs, err = decodeRnxTime(l)
	case HREC_LASTTIME:
		hdr.LastObs, err = decodeRnxTime(l)
	case HREC_RCVCLKOFFS:
		hdr.RcvClkOffs, err = l.int("clock offset", 0, 6)
	case HREC_SYSDCBS:
		var info RnxCorrInfo
		if info, err = decodeCorrInfo(l); err == nil {
			hdr.DcbsApplied = append(hdr.DcbsApplied, info)
		}
	case HREC_SYSPCVS:
		var info RnxCorrInfo
		if info, err = decodeCorrInfo(l); err == nil {
			hdr.PcvsApplied = append(hdr.PcvsApplied, info)
		}
	case HREC_SYSSCALE:
		return hdr.decodeScaleFactor(ctx, l)
	case HREC_SYSPHSHIFT:
		return hdr.decodePhaseShift(ctx, l)
	case HREC_GLOSLOTFRQ:
		return hdr.decodeGloFcn(l)
	case HREC_LEAPSECS:
		hdr.LeapSecs, err = l.int("leap seconds", 0, 6)
	case HREC_NUMSATS:
		hdr.NumSats, err = l.int("number of satellites", 0, 6)
	case HREC_PRNOBS:
		return hdr.decodePrnObs(ctx, l)
	case HREC_EOH:
	}
	return err
}

/* RINEX VERSION / TYPE: F9.2,11X,A1,19X,A1,19X ------------------------------*/
func (hdr *Rnx3ObsHeader) decodeVersion(l hdrLine) error {
	ver, err := l.float("version", 0, 20)
	if err != nil {
		return err
	}
	ftype, sys := l.trim(20, 20), strings.ToUpper(l.trim(40, 20))

	if ftype == "" || (ftype[0] != 'O' && ftype[0] != 'o') {
		e := newHdrError(ErrInvalidFileType, l.rec)
		e.Field, e.Text = "file type", l.str(20, 20)
		return e
	}
	if sys == "" || strings.IndexByte("GRESM", sys[0]) < 0 {
		e := newHdrError(ErrInvalidSystem, l.rec)
		e.Field, e.Text = "system", l.str(40, 20)
		return e
	}
	hdr.Version, hdr.FileType, hdr.SatSys = ver, ftype, sys[0]
	return nil
}

/* ANTENNA: PHASECENTER: A1,1X,A3,F9.4,2F14.4 --------------------------------*/
func (hdr *Rnx3ObsHeader) decodePhaseCenter(l hdrLine) error {
	sys, err := l.sys("system")
	if err != nil {
		return err
	}
	obs, err := l.obs(sys, 2)
	if err != nil {
		return err
	}
	var ctr [3]float64
	for i, f := range [3][2]int{{5, 9}, {14, 14}, {28, 14}} {
		if ctr[i], err = l.float("phase center", f[0], f[1]); err != nil {
			return err
		}
	}
	hdr.AntPhaseObs, hdr.AntPhaseCtr = obs, ctr
	return nil
}

/* SYS / # / OBS TYPES: A1,2X,I3,13(1X,A3) -----------------------------------*/
func (hdr *Rnx3ObsHeader) decodeObsTypes(ctx *hdrParseCtx, l hdrLine) error {
	if l.text[0] != ' ' {
		sys, err := l.sys("system")
		if err != nil {
			return err
		}
		n, err := l.int("number of obs types", 3, 3)
		if err != nil {
			return err
		}
		ctx.obsSys, ctx.obsNum = sys, n
		hdr.ObsTypes[sys] = make([]ObsId, 0, n)
	} else if ctx.obsSys == 0 || len(hdr.ObsTypes[ctx.obsSys]) >= ctx.obsNum {
		return continuationError(l.rec)
	}
	list := hdr.ObsTypes[ctx.obsSys]
	for i := 0; i < MAXDECOBSLINE && len(list) < ctx.obsNum; i++ {
		if l.trim(7+4*i, 3) == "" {
			break
		}
		obs, err := l.obs(ctx.obsSys, 7+4*i)
		if err != nil {
			return err
		}
		list = append(list, obs)
	}
	hdr.ObsTypes[ctx.obsSys] = list
	return nil
}

/* SYS / DCBS APPLIED, SYS / PCVS APPLIED: A1,1X,A17,1X,A40 ------------------*/
func decodeCorrInfo(l hdrLine) (RnxCorrInfo, error) {
	var info RnxCorrInfo

	sys, err := l.sys("system")
	if err != nil {
		return info, err
	}
	info.Sys, info.Name, info.Source = sys, l.trim(2, 17), l.trim(20, 40)
	return info, nil
}

/* SYS / SCALE FACTOR: A1,1X,I4,2X,I2,12(1X,A3) ------------------------------*/
func (hdr *Rnx3ObsHeader) decodeScaleFactor(ctx *hdrParseCtx, l hdrLine) error {
	if l.text[0] != ' ' {
		sys, err := l.sys("system")
		if err != nil {
			return err
		}
		fac, err := l.int("scale factor", 2, 4)
		if err != nil {
			return err
		}
		n, err := l.int("number of obs types", 8, 2)
		if err != nil {
			return err
		}
		ctx.sfSys, ctx.sfFac, ctx.sfNum, ctx.sfDone = sys, fac, n, 0
		if n == 0 && len(hdr.ObsTypes[sys]) == 0 {
			/* factor for all obs types of a system with no codes known */
			hdr.SysSfacAll[sys] = fac
			return nil
		}
		if hdr.SysSfac[sys] == nil {
			hdr.SysSfac[sys] = make(map[ObsId]int)
		}
		if n == 0 {
			/* factor applies to all obs types of the system */
			for _, obs := range hdr.ObsTypes[sys] {
				hdr.SysSfac[sys][obs] = fac
			}
			return nil
		}
	} else if ctx.sfSys == 0 || ctx.sfDone >= ctx.sfNum {
		/* resume from codes read for this record, not from the map size:
		 * an earlier record of the same system may already fill the map */
		return continuationError(l.rec)
	}
	for i := 0; i < MAXDECSFLINE && ctx.sfDone < ctx.sfNum; i++ {
		if l.trim(11+4*i, 3) == "" {
			break
		}
		obs, err := l.obs(ctx.sfSys, 11+4*i)
		if err != nil {
			return err
		}
		hdr.SysSfac[ctx.sfSys][obs] = ctx.sfFac
		ctx.sfDone++
	}
	return nil
}

/* SYS / PHASE SHIFTS: A1,1X,A3,1X,F8.5,2X,I2.2,10(1X,A3) --------------------*/
func (hdr *Rnx3ObsHeader) decodePhaseShift(ctx *hdrParseCtx, l hdrLine) error {
	if l.text[0] != ' ' {
		sys, err := l.sys("system")
		if err != nil {
			return err
		}
		ctx.psLeft = 0

		if l.trim(2, 3) == "" {
			/* no correction applied, system declared */
			hdr.PhaseShift[ObsId{Sys: sys}] = map[SatId]float64{{Sys: sys}: 0.0}
			return nil
		}
		obs, err := l.obs(sys, 2)
		if err != nil {
			return err
		}
		corr, err := l.float("correction", 6, 8)
		if err != nil {
			return err
		}
		n, err := l.int("number of satellites", 16, 2)
		if err != nil {
			return err
		}
		if hdr.PhaseShift[obs] == nil {
			hdr.PhaseShift[obs] = make(map[SatId]float64)
		}
		if n == 0 {
			/* correction applies to all satellites of the system */
			hdr.PhaseShift[obs][SatId{Sys: sys}] = corr
			return nil
		}
		ctx.psObs, ctx.psCorr, ctx.psLeft = obs, corr, n
	} else if ctx.psLeft <= 0 {
		return continuationError(l.rec)
	}
	sats := hdr.PhaseShift[ctx.psObs]
	for i := 0; i < MAXDECPSLINE && ctx.psLeft > 0; i++ {
		if l.trim(19+4*i, 3) == "" {
			break
		}
		sat, err := l.sat(19 + 4*i)
		if err != nil {
			return err
		}
		sats[sat] = ctx.psCorr
		ctx.psLeft--
	}
	return nil
}

/* GLONASS SLOT / FRQ #: I3,1X,8(A3,1X,I2,1X) --------------------------------*/
func (hdr *Rnx3ObsHeader) decodeGloFcn(l hdrLine) error {
	if _, err := l.int("number of satellites", 0, 3); err != nil {
		return err
	}
	for i := 0; i < MAXDECFCNLINE; i++ {
		if l.trim(4+7*i, 3) == "" {
			break
		}
		sat, err := l.sat(4 + 7*i)
		if err != nil {
			return err
		}
		fcn, err := l.int("frequency number", 8+7*i, 2)
		if err != nil {
			return err
		}
		hdr.GloFcn[sat] = fcn
	}
	return nil
}

/* PRN / # OF OBS: 3X,A3,9I6 -------------------------------------------------*/
func (hdr *Rnx3ObsHeader) decodePrnObs(ctx *hdrParseCtx, l hdrLine) error {
	if l.trim(3, 3) != "" {
		sat, err := l.sat(3)
		if err != nil {
			return err
		}
		ctx.lastSat = sat
		if _, ok := hdr.ObsTypes[sat.Sys]; !ok {
			return nil /* system without obs types: skipped */
		}
		hdr.NumObsForSat[sat] = []int{}
	} else if ctx.lastSat.Sys == 0 {
		return continuationError(l.rec)
	} else if _, ok := hdr.ObsTypes[ctx.lastSat.Sys]; !ok {
		return nil
	} else if len(hdr.NumObsForSat[ctx.lastSat]) >= len(hdr.ObsTypes[ctx.lastSat.Sys]) {
		return continuationError(l.rec)
	}
	ntype := len(hdr.ObsTypes[ctx.lastSat.Sys])
	list := hdr.NumObsForSat[ctx.lastSat]
	/* counts are positional: blank fields read as 0 */
	for i := 0; i < MAXDECPRNLINE && len(list) < ntype; i++ {
		n, err := l.int("number of obs", 6+6*i, 6)
		if err != nil {
			return err
		}
		list = append(list, n)
	}
	hdr.NumObsForSat[ctx.lastSat] = list
	return nil
}
