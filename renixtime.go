/*------------------------------------------------------------------------------
* renixtime.go : rinex 3 header time fields (TIME OF FIRST/LAST OBS)
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* history : 2024/03/02 1.0  new
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"fmt"
	"strings"
)

/* decode header time fields ---------------------------------------------------
* format : 5I6,F13.7,5X,A3 (year,month,day,hour,min,sec,time system)
* args   : hdrLine l        I   header line
* return : epoch with time system, error
*-----------------------------------------------------------------------------*/
func decodeRnxTime(l hdrLine) (RnxTime, error) {
	var (
		t     RnxTime
		ep    [6]float64
		names = [6]string{"year", "month", "day", "hour", "minute", "second"}
		lim   = [6][2]float64{{1970, 2099}, {1, 12}, {1, 31}, {0, 23}, {0, 59}, {0, 61}}
	)
	for i := 0; i < 6; i++ {
		pos, n := i*6, 6
		var err error
		if i == 5 {
			n = 13
			ep[i], err = l.float(names[i], pos, n)
		} else {
			var v int
			v, err = l.int(names[i], pos, n)
			ep[i] = float64(v)
		}
		if err != nil {
			return t, err
		}
		if ep[i] < lim[i][0] || (i < 5 && ep[i] > lim[i][1]) || (i == 5 && ep[i] >= lim[i][1]) {
			return t, fieldError(l.rec, names[i], l.str(pos, n), fmt.Errorf("out of range"))
		}
	}
	tsys, err := ParseTimeSys(l.str(48, 3))
	if err != nil {
		return t, fieldError(l.rec, "time system", l.str(48, 3), err)
	}
	t.Time = Epoch2Time(ep[:])
	t.TSys = tsys
	return t, nil
}

/* encode header time fields (51 columns) ------------------------------------*/
func encodeRnxTime(t RnxTime) string {
	var ep [6]float64
	tt := t.Time
	if 1.0-tt.Sec < 0.5e-7 {
		/* F13.7 would round up to 60.0000000 */
		tt = TimeAdd(tt, 0.5e-7)
	}
	Time2Epoch(tt, ep[:])
	return fmt.Sprintf("%6d%6d%6d%6d%6d%13.7f%8s", int(ep[0]), int(ep[1]), int(ep[2]),
		int(ep[3]), int(ep[4]), ep[5], strings.TrimSpace(TimeSysStr(t.TSys)))
}
