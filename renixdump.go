/*------------------------------------------------------------------------------
* renixdump.go : rinex 3 observation header dump
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* history : 2024/03/02 1.0  new
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

/* validity listing of required record kinds ---------------------------------*/
func (hdr *Rnx3ObsHeader) validityLines(mask HdrValid) []string {
	var lines []string
	for rec := HdrRec(0); rec < NUMHREC; rec++ {
		if !mask[rec] {
			continue
		}
		state := "valid"
		if !hdr.Valid.Has(rec) {
			state = "NOT valid"
		}
		lines = append(lines, fmt.Sprintf(" %-20s is %s", strings.TrimSpace(rec.Label()), state))
	}
	return lines
}

func epochStr(t RnxTime) string {
	return TimeStr(t.Time, 3) + " " + TimeSysStr(t.TSys)
}

/* dump header -----------------------------------------------------------------
* print human readable header contents
* args   : io.Writer w      I   output
* return : error
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Dump(w io.Writer) error {
	b := bufio.NewWriter(w)
	vecf := func(name string, v [3]float64) {
		fmt.Fprintf(b, "%-25s: %.4f %.4f %.4f\n", name, v[0], v[1], v[2])
	}

	fmt.Fprintf(b, "%s REQUIRED %s\n", strings.Repeat("-", 34), strings.Repeat("-", 34))
	fmt.Fprintf(b, "Rinex Version %5.2f,  File type %s,  System %s.\n", hdr.Version,
		hdr.FileType, sysText(hdr.SatSys))
	fmt.Fprintf(b, "Prgm: %s,  Run: %s,  By: %s\n", hdr.Prog, hdr.Date, hdr.RunBy)
	fmt.Fprintf(b, "Marker name: %s\n", hdr.MarkerName)
	fmt.Fprintf(b, "Observer : %s,  Agency: %s\n", hdr.Observer, hdr.Agency)
	fmt.Fprintf(b, "Rec#: %s,  Type: %s,  Vers: %s\n", hdr.RecNo, hdr.RecType, hdr.RecVers)
	fmt.Fprintf(b, "Antenna # : %s,  Type : %s\n", hdr.AntNo, hdr.AntType)
	vecf("Position      (XYZ,m)", hdr.AntPos)
	vecf("Antenna Delta (HEN,m)", hdr.AntDelHEN)
	for _, sys := range hdr.ObsSystems() {
		obss := hdr.ObsTypes[sys]
		fmt.Fprintf(b, "%s Observation types (%d):\n", SysName(sys), len(obss))
		for i, obs := range obss {
			fmt.Fprintf(b, " Type #%02d (%s)\n", i+1, obs.Code)
		}
	}
	fmt.Fprintf(b, "Time of first obs %s\n", epochStr(hdr.FirstObs))

	mask, supported := RequiredMask(hdr.Version)
	if supported && hdr.Valid.Contains(mask) {
		fmt.Fprintf(b, "(This header is VALID)\n")
	} else if !supported {
		fmt.Fprintf(b, "(This header is NOT VALID: unsupported RINEX %.2f)\n", hdr.Version)
	} else {
		fmt.Fprintf(b, "(This header is NOT VALID RINEX %.2f)\n", hdr.Version)
		for _, line := range hdr.validityLines(mask) {
			if strings.HasSuffix(line, "NOT valid") {
				fmt.Fprintln(b, line)
			}
		}
	}

	fmt.Fprintf(b, "%s OPTIONAL %s\n", strings.Repeat("-", 34), strings.Repeat("-", 34))
	if hdr.Valid.Has(HREC_MARKERNUM) {
		fmt.Fprintf(b, "Marker number : %s\n", hdr.MarkerNumber)
	}
	if hdr.Valid.Has(HREC_MARKERTYPE) {
		fmt.Fprintf(b, "Marker type : %s\n", hdr.MarkerType)
	}
	if hdr.Valid.Has(HREC_ANTDELXYZ) {
		vecf("Antenna Delta    (XYZ,m)", hdr.AntDelXYZ)
	}
	if hdr.Valid.Has(HREC_ANTPHASECTR) {
		vecf("Antenna PhaseCtr (XYZ,m)", hdr.AntPhaseCtr)
		fmt.Fprintf(b, " for %s\n", hdr.AntPhaseObs)
	}
	if hdr.Valid.Has(HREC_ANTBSIGHT) {
		vecf("Antenna B.sight  (XYZ,m)", hdr.AntBsight)
	}
	if hdr.Valid.Has(HREC_ANTZDAZI) {
		fmt.Fprintf(b, "%-25s: %.4f\n", "Antenna ZeroDir  (deg)", hdr.AntZeroDirAzi)
	}
	if hdr.Valid.Has(HREC_ANTZDXYZ) {
		vecf("Antenna ZeroDir  (XYZ,m)", hdr.AntZeroDirXYZ)
	}
	if hdr.Valid.Has(HREC_CENTMASS) {
		vecf("Center of Mass   (XYZ,m)", hdr.CenterOfMass)
	}
	if hdr.Valid.Has(HREC_SIGSTRUNIT) {
		fmt.Fprintf(b, "Signal Strength Unit = %s\n", hdr.SigStrengthUnit)
	}
	if hdr.Valid.Has(HREC_INTERVAL) {
		fmt.Fprintf(b, "Interval = %7.3f\n", hdr.Interval)
	}
	if hdr.Valid.Has(HREC_LASTTIME) {
		fmt.Fprintf(b, "Time of Last Obs %s\n", epochStr(hdr.LastObs))
		if hdr.Valid.Has(HREC_FIRSTTIME) {
			fmt.Fprintf(b, "Time span of obs %.1f s\n", TimeDiff(hdr.LastObs.Time, hdr.FirstObs.Time))
		}
	}
	if hdr.Valid.Has(HREC_RCVCLKOFFS) {
		applied := "are NOT"
		if hdr.RcvClkOffs != 0 {
			applied = "ARE"
		}
		fmt.Fprintf(b, "Clock offset record is present and offsets %s applied.\n", applied)
	}
	for _, c := range []struct {
		name  string
		infos []RnxCorrInfo
	}{{"DCBS", hdr.DcbsApplied}, {"PCVS", hdr.PcvsApplied}} {
		for _, info := range c.infos {
			fmt.Fprintf(b, "System %s Correction Applied to %s data using program %s\n",
				c.name, SysName(info.Sys), info.Name)
			fmt.Fprintf(b, " from source %s.\n", info.Source)
		}
	}
	for _, sys := range hdr.scaleSystems() {
		fmt.Fprintf(b, "%s scale factors applied:\n", SysName(sys))
		if fac, ok := hdr.SysSfacAll[sys]; ok && len(hdr.SysSfac[sys]) == 0 {
			fmt.Fprintf(b, "   all %d\n", fac)
			continue
		}
		facs, groups := hdr.scaleGroups(sys)
		for _, fac := range facs {
			for _, obs := range groups[fac] {
				fmt.Fprintf(b, "   %s %d\n", obs.Code, fac)
			}
		}
	}
	for _, obs := range hdr.phaseShiftObs() {
		sats := hdr.PhaseShift[obs]
		for _, sat := range sortedSats(sats) {
			fmt.Fprintf(b, "Phase shift correction %8.5f cycles applied to %s %s\n",
				sats[sat], sat, obs)
		}
	}
	if hdr.Valid.Has(HREC_GLOSLOTFRQ) {
		fmt.Fprintf(b, "GLONASS frequency channels:\n")
		for i, sat := range sortedSats(hdr.GloFcn) {
			fmt.Fprintf(b, " %s %2d", sat, hdr.GloFcn[sat])
			if (i+1)%MAXENCFCNLINE == 0 {
				fmt.Fprintln(b)
			}
		}
		if len(hdr.GloFcn)%MAXENCFCNLINE != 0 {
			fmt.Fprintln(b)
		}
	}
	if hdr.Valid.Has(HREC_LEAPSECS) {
		fmt.Fprintf(b, "Leap seconds: %d\n", hdr.LeapSecs)
	}
	if hdr.Valid.Has(HREC_NUMSATS) {
		fmt.Fprintf(b, "Number of Satellites with data : %d\n", hdr.NumSats)
	}
	if hdr.Valid.Has(HREC_PRNOBS) {
		fmt.Fprintf(b, " PRN and number of observations for each obs type:\n")
		for _, sat := range sortedSats(hdr.NumObsForSat) {
			fmt.Fprintf(b, " %s ", sat)
			for _, n := range hdr.NumObsForSat[sat] {
				fmt.Fprintf(b, " %6d", n)
			}
			fmt.Fprintln(b)
		}
	}
	fmt.Fprintf(b, "Comments (%d) :\n", len(hdr.Comments))
	for _, comment := range hdr.Comments {
		fmt.Fprintln(b, comment)
	}
	fmt.Fprintf(b, "%s END OF HEADER %s\n", strings.Repeat("-", 32), strings.Repeat("-", 32))
	return b.Flush()
}
