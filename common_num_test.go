/*------------------------------------------------------------------------------
* gnssgo unit test driver : fixed column number conversion
*-----------------------------------------------------------------------------*/

package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/* str2num(), str2int() */
func Test_numutest1(t *testing.T) {
	assert := assert.New(t)

	v, err := str2num("  1.25D+02 -0.5", 0, 10)
	assert.NoError(err)
	assert.InDelta(125.0, v, 1e-12)
	v, err = str2num("  1.25D+02 -0.5", 10, 8) /* width past end of string */
	assert.NoError(err)
	assert.InDelta(-0.5, v, 1e-12)
	v, err = str2num("      ", 0, 6)
	assert.NoError(err)
	assert.Equal(0.0, v)
	v, err = str2num("abc", 10, 6)
	assert.NoError(err)
	assert.Equal(0.0, v)
	_, err = str2num("  1.2.3", 0, 7)
	assert.Error(err)

	n, err := str2int("   100      300", 0, 6)
	assert.NoError(err)
	assert.Equal(100, n)
	n, err = str2int("   100      300", 6, 6)
	assert.NoError(err)
	assert.Equal(0, n)
	n, err = str2int("   100      300", 12, 6)
	assert.NoError(err)
	assert.Equal(300, n)
	n, err = str2int("G01", -1, 3)
	assert.NoError(err)
	assert.Equal(0, n)
	_, err = str2int("  12x", 0, 5)
	assert.Error(err)
}
