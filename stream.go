/*------------------------------------------------------------------------------
* stream.go : line oriented stream functions
*
*          Copyright (C) 2022-2025 by feng xuebin, All rights reserved.
*
* description : line streams used by the rinex header codec. supported
*               paths are
*
*               plain file   : path
*               gzip file    : path.gz
*               serial       : serial://port[:brate]
*
* history : 2022/05/31 1.0  new
*           2024/03/02 1.1  line reader/writer for rinex 3 header codec
*-----------------------------------------------------------------------------*/
package gnssgo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	serial "github.com/tarm/goserial"
)

const (
	SERIAL_PREFIX = "serial://" /* serial line stream path prefix */
	MAXRNXLEN     = 16 * 1024   /* max rinex record length */
)

// LineReader supplies physical lines one at a time. io.EOF signals the end.
type LineReader interface {
	ReadLine() (string, error)
	LineNum() int
}

// LineWriter accepts physical lines one at a time.
type LineWriter interface {
	WriteLine(line string) error
	LineNum() int
}

// LineStream is a buffered line reader or writer over a file, a
// gzip member or a serial device.
type LineStream struct {
	Path    string
	rd      *bufio.Reader
	wr      *bufio.Writer
	closers []io.Closer /* closed in reverse order */
	nline   int
}

/* new line reader -------------------------------------------------------------
* args   : io.Reader r      I   underlying reader
* return : line stream for reading
*-----------------------------------------------------------------------------*/
func NewLineReader(r io.Reader) *LineStream {
	return &LineStream{rd: bufio.NewReaderSize(r, MAXRNXLEN)}
}

/* new line writer -------------------------------------------------------------
* args   : io.Writer w      I   underlying writer
* return : line stream for writing (call Flush or Close when done)
*-----------------------------------------------------------------------------*/
func NewLineWriter(w io.Writer) *LineStream {
	return &LineStream{wr: bufio.NewWriter(w)}
}

/* open line stream for reading ------------------------------------------------
* args   : string path      I   file path or serial://port[:brate]
* return : line stream, error
* notes  : files ending with .gz are decompressed on the fly
*-----------------------------------------------------------------------------*/
func OpenLineStream(path string) (*LineStream, error) {
	Tracet(3, "openlinestream: path=%s\n", path)

	if strings.HasPrefix(path, SERIAL_PREFIX) {
		port, err := openSerialPort(path[len(SERIAL_PREFIX):])
		if err != nil {
			return nil, err
		}
		s := NewLineReader(port)
		s.Path = path
		s.closers = append(s.closers, port)
		return s, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !isGzipPath(path) {
		s := NewLineReader(fp)
		s.Path = path
		s.closers = append(s.closers, fp)
		return s, nil
	}
	gz, err := gzip.NewReader(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	s := NewLineReader(gz)
	s.Path = path
	s.closers = append(s.closers, fp, gz)
	return s, nil
}

/* create line stream for writing ----------------------------------------------
* args   : string path      I   file path (.gz: gzip compressed)
* return : line stream, error
*-----------------------------------------------------------------------------*/
func CreateLineStream(path string) (*LineStream, error) {
	Tracet(3, "createlinestream: path=%s\n", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	fp, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if !isGzipPath(path) {
		s := NewLineWriter(fp)
		s.Path = path
		s.closers = append(s.closers, fp)
		return s, nil
	}
	gz := gzip.NewWriter(fp)
	s := NewLineWriter(gz)
	s.Path = path
	s.closers = append(s.closers, fp, gz)
	return s, nil
}

func isGzipPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

/* open serial port (port[:brate]) -------------------------------------------*/
func openSerialPort(path string) (io.ReadWriteCloser, error) {
	var (
		br []int = []int{
			300, 600, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800,
			921600}
		brate int = 9600
		port  string
	)
	if index := strings.Index(path, ":"); index > 0 {
		port = path[:index]
		if _, err := fmt.Sscanf(path[index:], ":%d", &brate); err != nil {
			return nil, fmt.Errorf("serial %s: bitrate: %w", path, err)
		}
	} else {
		port = path
	}
	if i := sort.SearchInts(br, brate); i >= len(br) || br[i] != brate {
		Tracet(2, "openserial: bitrate error (%d) path=%s\n", brate, path)
		return nil, fmt.Errorf("serial %s: bitrate error (%d)", path, brate)
	}
	if runtime.GOOS != "windows" && !strings.HasPrefix(port, "/") {
		port = "/dev/" + port
	}
	c := &serial.Config{Name: port, Baud: brate}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serial %s: %w", port, err)
	}
	Tracet(3, "openserial: port=%s brate=%d\n", port, brate)
	return s, nil
}

/* read one line (without end of line characters) ----------------------------*/
func (s *LineStream) ReadLine() (string, error) {
	if s.rd == nil {
		return "", fmt.Errorf("line stream %s not open for reading", s.Path)
	}
	line, err := s.rd.ReadString('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return "", err
	}
	s.nline++
	return strings.TrimRight(line, "\r\n"), nil
}

/* write one line (end of line appended) -------------------------------------*/
func (s *LineStream) WriteLine(line string) error {
	if s.wr == nil {
		return fmt.Errorf("line stream %s not open for writing", s.Path)
	}
	if _, err := s.wr.WriteString(line); err != nil {
		return err
	}
	if err := s.wr.WriteByte('\n'); err != nil {
		return err
	}
	s.nline++
	return nil
}

/* number of lines read or written -------------------------------------------*/
func (s *LineStream) LineNum() int {
	return s.nline
}

/* flush buffered output -----------------------------------------------------*/
func (s *LineStream) Flush() error {
	if s.wr == nil {
		return nil
	}
	return s.wr.Flush()
}

/* close line stream ---------------------------------------------------------*/
func (s *LineStream) Close() error {
	err := s.Flush()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if e := s.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	s.closers = nil
	return err
}
