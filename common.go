/*------------------------------------------------------------------------------
* commnon.go : realized rtklib common functions
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
 */
/*------------------------------------------------------------------------------
* rtkcmn.c : rtklib common functions
*
*          Copyright (C) 2007-2020 by T.TAKASU, All rights reserved.
*
* references :
*     [1] W.Gurtner and L.Estey, RINEX The Receiver Independent Exchange Format
*         Version 3.00, November 28, 2007
*     [2] W.Gurtner and L.Estey, RINEX The Receiver Independent Exchange Format
*         Version 3.01, June 22, 2009
*
* history : 2007/01/12 1.0 new
*           2022/05/31 1.0 rewrite rtkcmn.c with golang by fxb
*           2024/03/02 1.1 keep time/satellite/obs-code helpers for rinex 3
*                          header codec, rotate trace file by size
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	rnxsyscodes = "GRESCJI" /* satellite system codes in satellite ids */
	rnxobstypes = "CLDSIX"  /* observation type letters of rinex 3 obs codes */
)

/* system letter to system name ------------------------------------------------
* args   : byte   sys       I   rinex system code ('G','R',...,'M')
* return : system name ("" : unknown system)
*-----------------------------------------------------------------------------*/
func SysName(sys byte) string {
	switch sys {
	case RNXSYS_GPS:
		return "GPS"
	case RNXSYS_GLO:
		return "GLONASS"
	case RNXSYS_GAL:
		return "Galileo"
	case RNXSYS_SBS:
		return "Geosync"
	case RNXSYS_QZS:
		return "QZSS"
	case RNXSYS_CMP:
		return "BeiDou"
	case RNXSYS_IRN:
		return "IRNSS"
	case RNXSYS_MIXED:
		return "Mixed"
	}
	return ""
}

/* satellite id string to satellite id -----------------------------------------
* convert satellite id string to satellite id
* args   : string id        I   satellite id (Gnn,Rnn,Enn,Snn,Cnn,Jnn,Inn)
* return : satellite id, error
* notes  : blank padded slot numbers ("G 1") are accepted
*-----------------------------------------------------------------------------*/
func ParseSatId(id string) (SatId, error) {
	var sat SatId

	id = strings.TrimSpace(id)
	if len(id) < 2 || len(id) > 3 {
		return sat, fmt.Errorf("invalid satellite id %q", id)
	}
	if strings.IndexByte(rnxsyscodes, id[0]) < 0 {
		return sat, fmt.Errorf("invalid satellite system %q", id)
	}
	prn, err := strconv.Atoi(strings.TrimSpace(id[1:]))
	if err != nil || prn < 1 || prn > MAXPRNRNX {
		return sat, fmt.Errorf("invalid satellite slot %q", id)
	}
	sat.Sys, sat.Prn = id[0], prn
	return sat, nil
}

/* satellite id to string (Gnn) ----------------------------------------------*/
func (sat SatId) String() string {
	if sat.Prn <= 0 {
		return string(sat.Sys)
	}
	return fmt.Sprintf("%c%02d", sat.Sys, sat.Prn)
}

/* compare satellite ids (system letter, then slot) --------------------------*/
func (sat SatId) Less(b SatId) bool {
	if sat.Sys != b.Sys {
		return sat.Sys < b.Sys
	}
	return sat.Prn < b.Prn
}

/* obs code string to obs id ---------------------------------------------------
* convert rinex 3 obs code string to system qualified obs id
* args   : byte   sys       I   system code
*          string code      I   obs code string ("C1C","L2W",...)
* return : obs id, error
*-----------------------------------------------------------------------------*/
func ParseObsId(sys byte, code string) (ObsId, error) {
	var obs ObsId

	if len(code) != 3 {
		return obs, fmt.Errorf("invalid obs code %q", code)
	}
	if strings.IndexByte(rnxobstypes, code[0]) < 0 {
		return obs, fmt.Errorf("invalid obs type %q", code)
	}
	if code[1] < '0' || code[1] > '9' {
		return obs, fmt.Errorf("invalid obs band %q", code)
	}
	obs.Sys, obs.Code = sys, code
	return obs, nil
}

/* obs id to system qualified string ("GC1C") --------------------------------*/
func (obs ObsId) String() string {
	return string(obs.Sys) + obs.Code
}

/* time system to string -------------------------------------------------------
* args   : int    tsys      I   time system (TSYS_???)
* return : time system string ("GPS","GLO",...,"" : none)
*-----------------------------------------------------------------------------*/
func TimeSysStr(tsys int) string {
	if tsys < 0 || tsys >= len(tsysstrs) {
		return ""
	}
	return tsysstrs[tsys]
}

/* string to time system -------------------------------------------------------
* args   : string str       I   time system string ("GPS","GLO",...)
* return : time system (TSYS_???), error
* notes  : blank string returns TSYS_NONE
*-----------------------------------------------------------------------------*/
func ParseTimeSys(str string) (int, error) {
	str = strings.TrimSpace(str)
	for i, s := range tsysstrs {
		if s == str {
			return i, nil
		}
	}
	return TSYS_NONE, fmt.Errorf("invalid time system %q", str)
}

/* string to number ------------------------------------------------------------
* convert substring in string to number
* args   : string s         I   string ("... nnn.nnn ...")
*          int    i,n       I   substring position and width
* return : converted number (0.0: blank), error
*-----------------------------------------------------------------------------*/
func str2num(s string, i, n int) (float64, error) {
	if i < 0 || len(s) < i {
		return 0.0, nil
	}
	if i+n > len(s) {
		s = s[i:]
	} else {
		s = s[i : i+n]
	}
	nr := strings.NewReplacer("d", "E", "D", "E")
	str := strings.TrimSpace(nr.Replace(s))
	if str == "" {
		return 0.0, nil
	}
	return strconv.ParseFloat(str, 64)
}

/* string to integer (blank: 0) ----------------------------------------------*/
func str2int(s string, i, n int) (int, error) {
	if i < 0 || len(s) < i {
		return 0, nil
	}
	if i+n > len(s) {
		s = s[i:]
	} else {
		s = s[i : i+n]
	}
	if str := strings.TrimSpace(s); str != "" {
		return strconv.Atoi(str)
	}
	return 0, nil
}

/* convert calendar day/time to time -------------------------------------------
* convert calendar day/time to gtime_t struct
* args   : double *ep       I   day/time {year,month,day,hour,min,sec}
* return : gtime_t struct
* notes  : proper in 1970-2037 or 1970-2099 (64bit time_t)
*-----------------------------------------------------------------------------*/
func Epoch2Time(ep []float64) Gtime {
	var (
		doy []int = []int{1, 32, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

		ret            Gtime = Gtime{0, 0}
		days, sec      int
		year, mon, day = int(ep[0]), int(ep[1]), int(ep[2])
	)

	if year < 1970 || 2099 < year || mon < 1 || 12 < mon {
		return ret
	}

	/* leap year if year%4==0 in 1901-2099 */
	if year%4 == 0 && mon >= 3 {
		days = (year-1970)*365 + (year-1969)/4 + doy[mon-1] + day - 2 + 1

	} else {
		days = (year-1970)*365 + (year-1969)/4 + doy[mon-1] + day - 2
	}
	sec = int(math.Floor(ep[5]))
	ret.Time = uint64(days*86400 + int(ep[3])*3600 + int(ep[4])*60 + sec)
	ret.Sec = ep[5] - float64(sec)
	return ret
}

/* time to calendar day/time ---------------------------------------------------
* convert gtime_t struct to calendar day/time
* args   : gtime_t t        I   gtime_t struct
*          double *ep       O   day/time {year,month,day,hour,min,sec}
* return : none
* notes  : proper in 1970-2037 or 1970-2099 (64bit time_t)
*-----------------------------------------------------------------------------*/
func Time2Epoch(t Gtime, ep []float64) {
	var mday []int = []int{ /* # of days in a month */
		31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31,
		31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	var days, sec, mon, day int

	/* leap year if year%4==0 in 1901-2099 */
	days = int(t.Time / 86400)
	sec = int(t.Time - uint64(days*86400))
	mon = 0
	for day = days % 1461; mon < 48; mon++ {
		if day >= mday[mon] {
			day -= mday[mon]
		} else {
			break
		}
	}
	ep[0] = float64(1970 + days/1461*4 + mon/12)
	ep[1] = float64(mon%12 + 1)
	ep[2] = float64(day + 1)
	ep[3] = float64(sec / 3600)
	ep[4] = float64(sec % 3600 / 60)
	ep[5] = float64(sec%60) + t.Sec
}

/* add time --------------------------------------------------------------------
* add time to gtime_t struct
* args   : gtime_t t        I   gtime_t struct
*          double sec       I   time to add (s)
* return : gtime_t struct (t+sec)
*-----------------------------------------------------------------------------*/
func TimeAdd(t Gtime, sec float64) Gtime {
	var tt float64

	t.Sec += sec
	tt = math.Floor(t.Sec)
	t.Time += uint64(tt)
	t.Sec -= tt
	return t
}

/* time difference -------------------------------------------------------------
* difference between gtime_t structs
* args   : gtime_t t1,t2    I   gtime_t structs
* return : time difference (t1-t2) (s)
*-----------------------------------------------------------------------------*/
func TimeDiff(t1 Gtime, t2 Gtime) float64 {
	return float64(int64(t1.Time)-int64(t2.Time)) + t1.Sec - t2.Sec
}

/* get current time in utc -----------------------------------------------------
* get current time in utc
* args   : none
* return : current time in utc
*-----------------------------------------------------------------------------*/
func TimeGet() Gtime {
	var ts = time.Now().UTC()
	var ep []float64 = []float64{float64(ts.Year()),
		float64(ts.Month()),
		float64(ts.Day()),
		float64(ts.Hour()),
		float64(ts.Minute()),
		float64(ts.Second()) + float64(ts.Nanosecond())*1e-9}

	return Epoch2Time(ep)
}

/* time to string --------------------------------------------------------------
* convert gtime_t struct to string
* args   : gtime_t t        I   gtime_t struct
*          char   *s        O   string ("yyyy/mm/dd hh:mm:ss.ssss")
*          int    n         I   number of decimals
* return : none
*-----------------------------------------------------------------------------*/
func Time2Str(t Gtime, s *string, n int) {
	var ep [6]float64 = [6]float64{0, 0, 0, 0, 0, 0}

	if n < 0 {
		n = 0
	} else if n > 12 {
		n = 12
	}
	if 1.0-t.Sec < 0.5/math.Pow(10.0, float64(n)) {
		t.Time++
		t.Sec = 0.0
	}
	Time2Epoch(t, ep[:])
	var n1, n2 int
	if n <= 0 {
		n1 = 2
		n2 = 0
	} else {
		n1 = n + 3
		n2 = n
	}

	*s = fmt.Sprintf("%04.0f/%02.0f/%02.0f %02.0f:%02.0f:%0*.*f", ep[0], ep[1], ep[2],
		ep[3], ep[4], n1, n2, ep[5])
}

/* get time string -------------------------------------------------------------
* get time string
* args   : gtime_t t        I   gtime_t struct
*          int    n         I   number of decimals
* return : time string
*-----------------------------------------------------------------------------*/
func TimeStr(t Gtime, n int) string {
	var buff string
	Time2Str(t, &buff, n)
	return buff
}

/* time string for ver.3 (yyyymmdd hhmmss UTC) -------------------------------*/
func TimeStrRnx(str *string) {
	var ep [6]float64
	time := TimeGet()
	time.Sec = 0.0
	Time2Epoch(time, ep[:])
	*str = fmt.Sprintf("%04.0f%02.0f%02.0f %02.0f%02.0f%02.0f UTC", ep[0], ep[1], ep[2],
		ep[3], ep[4], ep[5])
}

/* get current tick in ms ----------------------------------------------------*/
func TickGet() int64 {
	return time.Now().UnixMilli()
}

var (
	fp_trace    io.Writer
	rot_trace   *lumberjack.Logger
	level_trace int
	tick_trace  int64 = 0 /* tick time at traceopen (ms) */
	traceLock   sync.Mutex
)

/* debug trace functions -----------------------------------------------------*/
func TraceOpen(file string) {
	TraceOpenRotate(file, 0, 0, 0, false)
}

/* open trace file rotated by size ---------------------------------------------
* args   : string file      I   trace file path ("": stdout)
*          int    maxsize   I   max size of a trace file (MB) (0: 100MB)
*          int    backups   I   max number of old trace files (0: all)
*          int    maxage    I   max days to keep old trace files (0: all)
*          bool   compress  I   gzip rotated trace files
* return : none
*-----------------------------------------------------------------------------*/
func TraceOpenRotate(file string, maxsize, backups, maxage int, compress bool) {
	traceLock.Lock()
	defer traceLock.Unlock()

	if rot_trace != nil {
		rot_trace.Close()
		rot_trace = nil
	}
	if len(file) == 0 {
		fp_trace = os.Stdout
	} else {
		rot_trace = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxsize,
			MaxBackups: backups,
			MaxAge:     maxage,
			Compress:   compress,
		}
		fp_trace = rot_trace
	}
	tick_trace = TickGet()
	log.SetOutput(fp_trace)
}
func TraceClose() {
	traceLock.Lock()
	defer traceLock.Unlock()

	if rot_trace != nil {
		rot_trace.Close()
		log.SetOutput(os.Stderr)
	}
	rot_trace = nil
	fp_trace = nil
}
func TraceLevel(level int) {
	traceLock.Lock()
	level_trace = level
	traceLock.Unlock()
}
func Trace(level int, format string, v ...interface{}) {
	/* print error message to stderr */
	if level <= 1 {
		fmt.Printf(format, v...)
	}
	traceLock.Lock()
	defer traceLock.Unlock()
	if fp_trace == nil || level > level_trace {
		return
	}
	fmt.Fprintf(fp_trace, "%d %s", level, fmt.Sprintf(format, v...))
}
func Tracet(level int, format string, v ...interface{}) {
	traceLock.Lock()
	defer traceLock.Unlock()
	if fp_trace == nil || level > level_trace {
		return
	}
	fmt.Fprintf(fp_trace, "%d %9.3f: %s", level, float64(TickGet()-tick_trace)/1000.0,
		fmt.Sprintf(format, v...))
}

// pointer func for showmsg() defined by app
var ShowMsg_Ptr func(format string, v ...interface{}) int = showmsg

// default showmsg() func
func showmsg(format string, v ...interface{}) int {
	return 0
}
