/*------------------------------------------------------------------------------
* gnssgo unit test driver : line streams
*-----------------------------------------------------------------------------*/

package gnssgo_test

import (
	"errors"
	"gnssgo"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* line reader */
func Test_streamutest1(t *testing.T) {
	assert := assert.New(t)

	rd := gnssgo.NewLineReader(strings.NewReader("line 1\r\nline 2\n\nline 4"))
	for _, want := range []string{"line 1", "line 2", "", "line 4"} {
		line, err := rd.ReadLine()
		assert.NoError(err)
		assert.Equal(want, line)
	}
	_, err := rd.ReadLine()
	assert.True(errors.Is(err, io.EOF))
	assert.Equal(4, rd.LineNum())

	_, err = gnssgo.NewLineWriter(io.Discard).ReadLine()
	assert.Error(err)
	assert.Error(gnssgo.NewLineReader(strings.NewReader("")).WriteLine("x"))
}

/* header through plain and gzip files */
func Test_streamutest2(t *testing.T) {
	dir := t.TempDir()
	hdr := fullHeader(t, 3.01)

	for _, name := range []string{"wuh20620.24o", "wuh20620.24o.gz"} {
		path := filepath.Join(dir, "out", name)

		wr, err := gnssgo.CreateLineStream(path)
		require.NoError(t, err)
		require.NoError(t, hdr.Write(wr))
		assert.Equal(t, hdr.NumHeaderLines(), wr.LineNum())
		require.NoError(t, wr.Close())

		rd, err := gnssgo.OpenLineStream(path)
		require.NoError(t, err)
		dec, err := gnssgo.ReadRnx3ObsHeader(rd)
		require.NoError(t, err)
		assert.Equal(t, hdr, dec)
		assert.Equal(t, wr.LineNum(), rd.LineNum())
		require.NoError(t, rd.Close())
	}

	/* gzip file is not plain text */
	buff, err := os.ReadFile(filepath.Join(dir, "out", "wuh20620.24o.gz"))
	require.NoError(t, err)
	assert.NotContains(t, string(buff), "END OF HEADER")

	_, err = gnssgo.OpenLineStream(filepath.Join(dir, "missing.24o"))
	assert.Error(t, err)
	_, err = gnssgo.OpenLineStream("serial://ttyS0:1234")
	assert.Error(t, err)
}

/* failed encode writes nothing */
func Test_streamutest3(t *testing.T) {
	var b strings.Builder

	hdr := fullHeader(t, 3.0)
	hdr.Valid.Unset(gnssgo.HREC_OBSERVER)
	wr := gnssgo.NewLineWriter(&b)
	assert.True(t, errors.Is(hdr.Write(wr), gnssgo.ErrIncompleteHeader))
	require.NoError(t, wr.Flush())
	assert.Equal(t, 0, wr.LineNum())
	assert.Empty(t, b.String())
}
