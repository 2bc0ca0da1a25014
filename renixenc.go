/*------------------------------------------------------------------------------
* renixenc.go : rinex 3 observation header encoder
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
	"sort"
	"strings"
)

const (
	MAXENCOBSLINE = 9  /* max obs codes in a SYS / # / OBS TYPES line */
	MAXENCSFLINE  = 12 /* max obs codes in a SYS / SCALE FACTOR line */
	MAXENCPSLINE  = 10 /* max satellites in a SYS / PHASE SHIFTS line */
	MAXENCFCNLINE = 8  /* max satellites in a GLONASS SLOT / FRQ # line */
	MAXENCPRNLINE = 9  /* max obs counts in a PRN / # OF OBS line */
)

/* pad or cut string to n columns --------------------------------------------*/
func fitStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

/* header line: 60 data columns + label --------------------------------------*/
func hdrOut(rec HdrRec, data string) string {
	return fitStr(data, RNXHDRMINLEN) + rec.Label()
}

func vecStr(v [3]float64) string {
	return fmt.Sprintf("%14.4f%14.4f%14.4f", v[0], v[1], v[2])
}

/* system text of RINEX VERSION / TYPE ---------------------------------------*/
func sysText(sys byte) string {
	return fmt.Sprintf("%c (%s)", sys, strings.ToUpper(SysName(sys)))
}

/* check header before encoding ------------------------------------------------
* return : error (*HdrError)
* notes  : numbers too wide for their columns (phase shift F8.5, obs counts I6,
*          scale factors I4, frequency numbers I2) are rejected, not clamped
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Check() error {
	ver, ok := SupportedVersion(hdr.Version)
	if !ok {
		e := newHdrError(ErrUnsupportedVersion, HREC_VERSION)
		e.Field, e.Text = "version", fmt.Sprintf("%.2f", hdr.Version)
		return e
	}
	mask, _ := RequiredMask(ver)
	if missing := hdr.Valid.Missing(mask); len(missing) > 0 {
		e := newHdrError(ErrIncompleteHeader, -1)
		e.Missing = missing
		e.Detail = hdr.validityLines(mask)
		return e
	}
	if hdr.FileType == "" || (hdr.FileType[0] != 'O' && hdr.FileType[0] != 'o') {
		e := newHdrError(ErrInvalidFileType, HREC_VERSION)
		e.Field, e.Text = "file type", hdr.FileType
		return e
	}
	if strings.IndexByte("GRESM", hdr.SatSys) < 0 {
		e := newHdrError(ErrInvalidSystem, HREC_VERSION)
		e.Field, e.Text = "system", string(hdr.SatSys)
		return e
	}
	return hdr.checkFields()
}

/* fixed width fields must fit their columns ---------------------------------*/
func (hdr *Rnx3ObsHeader) checkFields() error {
	fit := func(rec HdrRec, field, text string, n int) error {
		if len(text) <= n {
			return nil
		}
		return fieldError(rec, field, text, fmt.Errorf("exceeds %d columns", n))
	}
	var err error

	if hdr.Valid.Has(HREC_SYSSCALE) {
		for _, sys := range hdr.scaleSystems() {
			for _, fac := range hdr.SysSfac[sys] {
				if err = fit(HREC_SYSSCALE, "scale factor", fmt.Sprintf("%4d", fac), 4); err != nil {
					return err
				}
			}
			if fac, ok := hdr.SysSfacAll[sys]; ok {
				if err = fit(HREC_SYSSCALE, "scale factor", fmt.Sprintf("%4d", fac), 4); err != nil {
					return err
				}
			}
		}
	}
	if hdr.Valid.Has(HREC_SYSPHSHIFT) {
		for _, obs := range hdr.phaseShiftObs() {
			for _, corr := range hdr.PhaseShift[obs] {
				/* F8.5: -9.99999 .. 99.99999 */
				if err = fit(HREC_SYSPHSHIFT, "correction", fmt.Sprintf("%8.5f", corr), 8); err != nil {
					return err
				}
			}
		}
	}
	if hdr.Valid.Has(HREC_GLOSLOTFRQ) {
		for _, sat := range sortedSats(hdr.GloFcn) {
			if err = fit(HREC_GLOSLOTFRQ, "frequency number", fmt.Sprintf("%2d", hdr.GloFcn[sat]), 2); err != nil {
				return err
			}
		}
	}
	if hdr.Valid.Has(HREC_PRNOBS) {
		for _, sat := range sortedSats(hdr.NumObsForSat) {
			for _, n := range hdr.NumObsForSat[sat] {
				/* I6: up to 999999 */
				if err = fit(HREC_PRNOBS, "number of obs", fmt.Sprintf("%6d", n), 6); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

/* encode rinex 3 observation header -------------------------------------------
* return : header lines (80 columns each), error
* notes  : nothing is produced unless the header passes Check()
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Lines() ([]string, error) {
	if err := hdr.Check(); err != nil {
		Trace(2, "outrnx3obsh: %v\n", err)
		return nil, err
	}
	ver, _ := SupportedVersion(hdr.Version)
	lines := make([]string, 0, hdr.NumHeaderLines())

	for rec := HdrRec(0); rec < NUMHREC; rec++ {
		if !hdr.Valid.Has(rec) {
			continue
		}
		switch rec {
		case HREC_VERSION:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%9.2f%11s%-20s%-20s", ver, "",
				fitStr(hdr.FileType, 20), sysText(hdr.SatSys))))
		case HREC_RUNBY:
			date := hdr.Date
			if date == "" {
				TimeStrRnx(&date)
			}
			lines = append(lines, hdrOut(rec, fitStr(hdr.Prog, 20)+fitStr(hdr.RunBy, 20)+
				fitStr(date, 20)))
		case HREC_COMMENT:
			for _, comment := range hdr.Comments {
				lines = append(lines, hdrOut(rec, comment))
			}
		case HREC_MARKERNAME:
			lines = append(lines, hdrOut(rec, hdr.MarkerName))
		case HREC_MARKERNUM:
			lines = append(lines, hdrOut(rec, hdr.MarkerNumber))
		case HREC_MARKERTYPE:
			lines = append(lines, hdrOut(rec, hdr.MarkerType))
		case HREC_OBSERVER:
			lines = append(lines, hdrOut(rec, fitStr(hdr.Observer, 20)+fitStr(hdr.Agency, 40)))
		case HREC_RECEIVER:
			lines = append(lines, hdrOut(rec, fitStr(hdr.RecNo, 20)+fitStr(hdr.RecType, 20)+
				fitStr(hdr.RecVers, 20)))
		case HREC_ANTTYPE:
			lines = append(lines, hdrOut(rec, fitStr(hdr.AntNo, 20)+fitStr(hdr.AntType, 20)))
		case HREC_ANTPOS:
			lines = append(lines, hdrOut(rec, vecStr(hdr.AntPos)))
		case HREC_ANTDELHEN:
			lines = append(lines, hdrOut(rec, vecStr(hdr.AntDelHEN)))
		case HREC_ANTDELXYZ:
			lines = append(lines, hdrOut(rec, vecStr(hdr.AntDelXYZ)))
		case HREC_ANTPHASECTR:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%c %-3s%9.4f%14.4f%14.4f",
				hdr.AntPhaseObs.Sys, hdr.AntPhaseObs.Code, hdr.AntPhaseCtr[0],
				hdr.AntPhaseCtr[1], hdr.AntPhaseCtr[2])))
		case HREC_ANTBSIGHT:
			lines = append(lines, hdrOut(rec, vecStr(hdr.AntBsight)))
		case HREC_ANTZDAZI:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%14.4f", hdr.AntZeroDirAzi)))
		case HREC_ANTZDXYZ:
			lines = append(lines, hdrOut(rec, vecStr(hdr.AntZeroDirXYZ)))
		case HREC_CENTMASS:
			lines = append(lines, hdrOut(rec, vecStr(hdr.CenterOfMass)))
		case HREC_SYSOBSTYPE:
			lines = hdr.outObsTypes(lines)
		case HREC_SIGSTRUNIT:
			lines = append(lines, hdrOut(rec, hdr.SigStrengthUnit))
		case HREC_INTERVAL:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%10.3f", hdr.Interval)))
		case HREC_FIRSTTIME:
			lines = append(lines, hdrOut(rec, encodeRnxTime(hdr.FirstObs)))
		case HREC_LASTTIME:
			lines = append(lines, hdrOut(rec, encodeRnxTime(hdr.LastObs)))
		case HREC_RCVCLKOFFS:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%6d", hdr.RcvClkOffs)))
		case HREC_SYSDCBS:
			lines = outCorrInfo(lines, rec, hdr.DcbsApplied)
		case HREC_SYSPCVS:
			lines = outCorrInfo(lines, rec, hdr.PcvsApplied)
		case HREC_SYSSCALE:
			lines = hdr.outScaleFactor(lines)
		case HREC_SYSPHSHIFT:
			lines = hdr.outPhaseShift(lines)
		case HREC_GLOSLOTFRQ:
			lines = hdr.outGloFcn(lines)
		case HREC_LEAPSECS:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%6d", hdr.LeapSecs)))
		case HREC_NUMSATS:
			lines = append(lines, hdrOut(rec, fmt.Sprintf("%6d", hdr.NumSats)))
		case HREC_PRNOBS:
			lines = hdr.outPrnObs(lines)
		case HREC_EOH:
			lines = append(lines, hdrOut(rec, ""))
		}
	}
	Trace(4, "outrnx3obsh: ver=%.2f lines=%d\n", ver, len(lines))
	return lines, nil
}

/* write rinex 3 observation header --------------------------------------------
* args   : LineWriter wr    I   line stream
* return : error
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Write(wr LineWriter) error {
	lines, err := hdr.Lines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err = wr.WriteLine(line); err != nil {
			return fmt.Errorf("write header line %d: %w", wr.LineNum()+1, err)
		}
	}
	return nil
}

/* SYS / # / OBS TYPES -------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) outObsTypes(lines []string) []string {
	for _, sys := range hdr.ObsSystems() {
		obss := hdr.ObsTypes[sys]
		data := fmt.Sprintf("%c  %3d", sys, len(obss))
		for i, obs := range obss {
			if i > 0 && i%MAXENCOBSLINE == 0 {
				lines = append(lines, hdrOut(HREC_SYSOBSTYPE, data))
				data = strings.Repeat(" ", 6)
			}
			data += " " + fitStr(obs.Code, 3)
		}
		lines = append(lines, hdrOut(HREC_SYSOBSTYPE, data))
	}
	return lines
}

/* SYS / DCBS APPLIED, SYS / PCVS APPLIED ------------------------------------*/
func outCorrInfo(lines []string, rec HdrRec, infos []RnxCorrInfo) []string {
	for _, info := range infos {
		lines = append(lines, hdrOut(rec, fmt.Sprintf("%c %s %s", info.Sys,
			fitStr(info.Name, 17), fitStr(info.Source, 40))))
	}
	return lines
}

/* scale factors of a system grouped by factor (ascending) -------------------*/
func (hdr *Rnx3ObsHeader) scaleGroups(sys byte) ([]int, map[int][]ObsId) {
	groups := make(map[int][]ObsId)
	for obs, fac := range hdr.SysSfac[sys] {
		groups[fac] = append(groups[fac], obs)
	}
	facs := make([]int, 0, len(groups))
	for fac, obss := range groups {
		hdr.sortObs(obss)
		facs = append(facs, fac)
	}
	sort.Ints(facs)
	return facs, groups
}

/* systems with scale factors (sorted) ---------------------------------------*/
func (hdr *Rnx3ObsHeader) scaleSystems() []byte {
	syss := sortedSystems(hdr.SysSfac)
	for _, sys := range sortedSystems(hdr.SysSfacAll) {
		if len(hdr.SysSfac[sys]) == 0 {
			syss = append(syss, sys)
		}
	}
	sort.Slice(syss, func(i, j int) bool { return syss[i] < syss[j] })
	return syss
}

/* SYS / SCALE FACTOR --------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) outScaleFactor(lines []string) []string {
	for _, sys := range hdr.scaleSystems() {
		if len(hdr.SysSfac[sys]) == 0 {
			if fac, ok := hdr.SysSfacAll[sys]; ok {
				lines = append(lines, hdrOut(HREC_SYSSCALE, fmt.Sprintf("%c %4d  %2d", sys, fac, 0)))
			}
			continue
		}
		facs, groups := hdr.scaleGroups(sys)
		for _, fac := range facs {
			obss := groups[fac]
			data := fmt.Sprintf("%c %4d  %2d", sys, fac, len(obss))
			for i, obs := range obss {
				if i > 0 && i%MAXENCSFLINE == 0 {
					lines = append(lines, hdrOut(HREC_SYSSCALE, data))
					data = strings.Repeat(" ", 10)
				}
				data += " " + fitStr(obs.Code, 3)
			}
			lines = append(lines, hdrOut(HREC_SYSSCALE, data))
		}
	}
	return lines
}

/* phase shift codes sorted --------------------------------------------------*/
func (hdr *Rnx3ObsHeader) phaseShiftObs() []ObsId {
	obss := make([]ObsId, 0, len(hdr.PhaseShift))
	for obs := range hdr.PhaseShift {
		obss = append(obss, obs)
	}
	hdr.sortObs(obss)
	return obss
}

/* satellites of a phase shift code grouped by correction (ascending) --------*/
func phaseShiftGroups(sats map[SatId]float64) ([]float64, map[float64][]SatId) {
	groups := make(map[float64][]SatId)
	for _, sat := range sortedSats(sats) {
		if sat.Prn == 0 {
			continue
		}
		groups[sats[sat]] = append(groups[sats[sat]], sat)
	}
	corrs := make([]float64, 0, len(groups))
	for corr := range groups {
		corrs = append(corrs, corr)
	}
	sort.Float64s(corrs)
	return corrs, groups
}

/* SYS / PHASE SHIFTS --------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) outPhaseShift(lines []string) []string {
	for _, obs := range hdr.phaseShiftObs() {
		sats := hdr.PhaseShift[obs]
		if obs.Code == "" {
			lines = append(lines, hdrOut(HREC_SYSPHSHIFT, string(obs.Sys)))
			continue
		}
		if corr, ok := sats[SatId{Sys: obs.Sys}]; ok {
			lines = append(lines, hdrOut(HREC_SYSPHSHIFT, fmt.Sprintf("%c %3s %8.5f",
				obs.Sys, obs.Code, corr)))
		}
		corrs, groups := phaseShiftGroups(sats)
		for _, corr := range corrs {
			group := groups[corr]
			data := fmt.Sprintf("%c %3s %8.5f  %02d", obs.Sys, obs.Code, corr, len(group))
			for i, sat := range group {
				if i > 0 && i%MAXENCPSLINE == 0 {
					lines = append(lines, hdrOut(HREC_SYSPHSHIFT, data))
					data = strings.Repeat(" ", 18)
				}
				data += " " + sat.String()
			}
			lines = append(lines, hdrOut(HREC_SYSPHSHIFT, data))
		}
	}
	return lines
}

/* GLONASS SLOT / FRQ # ------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) outGloFcn(lines []string) []string {
	sats := sortedSats(hdr.GloFcn)
	data := fmt.Sprintf("%3d ", len(sats))
	for i, sat := range sats {
		if i > 0 && i%MAXENCFCNLINE == 0 {
			lines = append(lines, hdrOut(HREC_GLOSLOTFRQ, data))
			data = strings.Repeat(" ", 4)
		}
		data += fmt.Sprintf("%s %2d ", sat, hdr.GloFcn[sat])
	}
	return append(lines, hdrOut(HREC_GLOSLOTFRQ, data))
}

/* PRN / # OF OBS ------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) outPrnObs(lines []string) []string {
	for _, sat := range sortedSats(hdr.NumObsForSat) {
		data := "   " + sat.String()
		for i, n := range hdr.NumObsForSat[sat] {
			if i > 0 && i%MAXENCPRNLINE == 0 {
				lines = append(lines, hdrOut(HREC_PRNOBS, data))
				data = strings.Repeat(" ", 6)
			}
			data += fmt.Sprintf("%6d", n)
		}
		lines = append(lines, hdrOut(HREC_PRNOBS, data))
	}
	return lines
}

/* lines of a list split at n items per line (min 1) -------------------------*/
func numLines(items, n int) int {
	if items <= n {
		return 1
	}
	return (items + n - 1) / n
}

/* number of header lines ------------------------------------------------------
* number of lines Lines() emits for the flags currently set
* notes  : PRN / # OF OBS lines are estimated from the obs types of the first
*          satellite's system for every satellite
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) NumHeaderLines() int {
	var n int

	for rec := HdrRec(0); rec < NUMHREC; rec++ {
		if !hdr.Valid.Has(rec) {
			continue
		}
		switch rec {
		case HREC_COMMENT:
			n += len(hdr.Comments)
		case HREC_SYSOBSTYPE:
			for _, obss := range hdr.ObsTypes {
				n += numLines(len(obss), MAXENCOBSLINE)
			}
		case HREC_SYSDCBS:
			n += len(hdr.DcbsApplied)
		case HREC_SYSPCVS:
			n += len(hdr.PcvsApplied)
		case HREC_SYSSCALE:
			for _, sys := range hdr.scaleSystems() {
				if len(hdr.SysSfac[sys]) == 0 {
					if _, ok := hdr.SysSfacAll[sys]; ok {
						n++
					}
					continue
				}
				facs, groups := hdr.scaleGroups(sys)
				for _, fac := range facs {
					n += numLines(len(groups[fac]), MAXENCSFLINE)
				}
			}
		case HREC_SYSPHSHIFT:
			for obs, sats := range hdr.PhaseShift {
				if obs.Code == "" {
					n++
					continue
				}
				if _, ok := sats[SatId{Sys: obs.Sys}]; ok {
					n++
				}
				corrs, groups := phaseShiftGroups(sats)
				for _, corr := range corrs {
					n += numLines(len(groups[corr]), MAXENCPSLINE)
				}
			}
		case HREC_GLOSLOTFRQ:
			n += numLines(len(hdr.GloFcn), MAXENCFCNLINE)
		case HREC_PRNOBS:
			sats := sortedSats(hdr.NumObsForSat)
			if len(sats) > 0 {
				nobs := len(hdr.ObsTypes[sats[0].Sys])
				n += len(sats) * numLines(nobs, MAXENCPRNLINE)
			}
		default:
			n++
		}
	}
	return n
}
