/*------------------------------------------------------------------------------
* renixhdr.go : rinex 3 observation header model
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
	"sort"
	"strings"
)

// Rnx3ObsHeader is the header of a rinex 3.00/3.01 observation file.
// Presence of each record is tracked by Valid, not by zero values.
type Rnx3ObsHeader struct {
	Version  float64 /* format version (3.0 or 3.01) */
	FileType string  /* file type ("OBSERVATION DATA") */
	SatSys   byte    /* satellite system (G,R,E,S,M) */
	Prog     string  /* program creating file */
	RunBy    string  /* agency creating file */
	Date     string  /* date of file creation */

	MarkerName   string
	MarkerNumber string
	MarkerType   string
	Observer     string
	Agency       string

	RecNo   string /* receiver number */
	RecType string /* receiver type */
	RecVers string /* receiver firmware version */
	AntNo   string /* antenna number */
	AntType string /* antenna type */

	AntPos        [3]float64 /* approx marker position (ecef) (m) */
	AntDelHEN     [3]float64 /* antenna delta h/e/n (m) */
	AntDelXYZ     [3]float64 /* antenna delta x/y/z (m) */
	AntPhaseObs   ObsId      /* obs code of antenna phase center */
	AntPhaseCtr   [3]float64 /* antenna phase center offset (m) */
	AntBsight     [3]float64 /* antenna bore sight (unit vector) */
	AntZeroDirAzi float64    /* antenna zero direction azimuth (deg) */
	AntZeroDirXYZ [3]float64 /* antenna zero direction (unit vector) */
	CenterOfMass  [3]float64 /* vehicle center of mass (m) */

	ObsTypes        map[byte][]ObsId /* obs codes by system, in column order */
	SigStrengthUnit string

	Interval   float64 /* observation interval (s) */
	FirstObs   RnxTime
	LastObs    RnxTime
	RcvClkOffs int /* receiver clock offset applied (0:no,1:yes) */

	DcbsApplied  []RnxCorrInfo
	PcvsApplied  []RnxCorrInfo
	SysSfac      map[byte]map[ObsId]int      /* scale factors by system and code */
	SysSfacAll   map[byte]int                /* scale factor for all codes of a system without obs types */
	PhaseShift   map[ObsId]map[SatId]float64 /* phase shift corrections (cycles) */
	GloFcn       map[SatId]int               /* glonass frequency channel numbers */
	LeapSecs     int
	NumSats      int
	NumObsForSat map[SatId][]int /* obs counts aligned with ObsTypes of the system */
	Comments     []string

	Valid HdrValid
}

/* new rinex 3 observation header --------------------------------------------*/
func NewRnx3ObsHeader() *Rnx3ObsHeader {
	hdr := new(Rnx3ObsHeader)
	hdr.Clear()
	return hdr
}

/* clear header ----------------------------------------------------------------
* reset every field and validity flag before a fresh parse
*-----------------------------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) Clear() {
	*hdr = Rnx3ObsHeader{
		FileType:     "OBSERVATION DATA",
		SatSys:       RNXSYS_GPS,
		ObsTypes:     make(map[byte][]ObsId),
		SysSfac:      make(map[byte]map[ObsId]int),
		SysSfacAll:   make(map[byte]int),
		PhaseShift:   make(map[ObsId]map[SatId]float64),
		GloFcn:       make(map[SatId]int),
		NumObsForSat: make(map[SatId][]int),
	}
	hdr.FirstObs.TSys = TSYS_NONE
	hdr.LastObs.TSys = TSYS_NONE
}

/* systems with obs types (sorted) -------------------------------------------*/
func (hdr *Rnx3ObsHeader) ObsSystems() []byte {
	return sortedSystems(hdr.ObsTypes)
}

/* index of obs code in obs types of its system (-1: none) -------------------*/
func (hdr *Rnx3ObsHeader) ObsIndex(obs ObsId) int {
	for i, o := range hdr.ObsTypes[obs.Sys] {
		if o == obs {
			return i
		}
	}
	return -1
}

/* set obs types of a system -------------------------------------------------*/
func (hdr *Rnx3ObsHeader) SetObsTypes(sys byte, codes ...string) error {
	list := make([]ObsId, 0, len(codes))
	for _, code := range codes {
		obs, err := ParseObsId(sys, code)
		if err != nil {
			return err
		}
		list = append(list, obs)
	}
	hdr.ObsTypes[sys] = list
	hdr.Valid.Set(HREC_SYSOBSTYPE)
	return nil
}

/* field replacement ---------------------------------------------------------*/
func (hdr *Rnx3ObsHeader) AddComment(comment string) {
	hdr.Comments = append(hdr.Comments, strings.TrimRight(comment, " "))
	hdr.Valid.Set(HREC_COMMENT)
}
func (hdr *Rnx3ObsHeader) SetMarker(name, number, mtype string) {
	if name != "" {
		hdr.MarkerName = name
		hdr.Valid.Set(HREC_MARKERNAME)
	}
	if number != "" {
		hdr.MarkerNumber = number
		hdr.Valid.Set(HREC_MARKERNUM)
	}
	if mtype != "" {
		hdr.MarkerType = mtype
		hdr.Valid.Set(HREC_MARKERTYPE)
	}
}
func (hdr *Rnx3ObsHeader) SetObserver(observer, agency string) {
	hdr.Observer, hdr.Agency = observer, agency
	hdr.Valid.Set(HREC_OBSERVER)
}
func (hdr *Rnx3ObsHeader) SetReceiver(no, rtype, vers string) {
	hdr.RecNo, hdr.RecType, hdr.RecVers = no, rtype, vers
	hdr.Valid.Set(HREC_RECEIVER)
}
func (hdr *Rnx3ObsHeader) SetAntenna(no, atype string) {
	hdr.AntNo, hdr.AntType = no, atype
	hdr.Valid.Set(HREC_ANTTYPE)
}
func (hdr *Rnx3ObsHeader) SetAntPos(pos [3]float64) {
	hdr.AntPos = pos
	hdr.Valid.Set(HREC_ANTPOS)
}
func (hdr *Rnx3ObsHeader) SetAntDelta(del [3]float64) {
	hdr.AntDelHEN = del
	hdr.Valid.Set(HREC_ANTDELHEN)
}

/* sorting helpers -----------------------------------------------------------*/
func sortedSystems[T any](m map[byte]T) []byte {
	syss := make([]byte, 0, len(m))
	for sys := range m {
		syss = append(syss, sys)
	}
	sort.Slice(syss, func(i, j int) bool { return syss[i] < syss[j] })
	return syss
}

func sortedSats[T any](m map[SatId]T) []SatId {
	sats := make([]SatId, 0, len(m))
	for sat := range m {
		sats = append(sats, sat)
	}
	sort.Slice(sats, func(i, j int) bool { return sats[i].Less(sats[j]) })
	return sats
}

/* obs codes sorted by system, then column order in obs types, then code -----*/
func (hdr *Rnx3ObsHeader) sortObs(obss []ObsId) {
	sort.Slice(obss, func(i, j int) bool {
		a, b := obss[i], obss[j]
		if a.Sys != b.Sys {
			return a.Sys < b.Sys
		}
		ia, ib := hdr.ObsIndex(a), hdr.ObsIndex(b)
		if ia != ib {
			if ia < 0 {
				return false
			}
			if ib < 0 {
				return true
			}
			return ia < ib
		}
		return a.Code < b.Code
	})
}
