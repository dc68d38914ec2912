package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsConflictingOutputModes(t *testing.T) {
	o := Options{MinRunSize: 8, PageWidth: 80, Threshold: 1, Diff: true, Terse: true}
	err := o.Validate(false, false)
	assert.ErrorContains(t, err, "incompatible")
}

func TestValidateRequiresPercentForThreshold(t *testing.T) {
	o := Options{MinRunSize: 8, PageWidth: 80, Threshold: 1}
	err := o.Validate(true, false)
	assert.ErrorContains(t, err, "-t requires")
}

func TestValidateRejectsStdinWithFileArgs(t *testing.T) {
	o := Options{MinRunSize: 8, PageWidth: 80, Threshold: 1, ReadStdin: true}
	err := o.Validate(false, true)
	assert.ErrorContains(t, err, "-i option")
}

func TestValidateRejectsBadMinRunAndWidth(t *testing.T) {
	o := Options{MinRunSize: 0, PageWidth: 80, Threshold: 1}
	assert.Error(t, o.Validate(false, false))

	o = Options{MinRunSize: 8, PageWidth: 0, Threshold: 1}
	assert.Error(t, o.Validate(false, false))
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	o := Options{MinRunSize: 8, PageWidth: 80, Threshold: 0, Percent: true}
	assert.Error(t, o.Validate(true, false))

	o = Options{MinRunSize: 8, PageWidth: 80, Threshold: 101, Percent: true}
	assert.Error(t, o.Validate(true, false))
}

func TestValidateMainOnlyImpliesPercentImpliesEachAndNoSelf(t *testing.T) {
	o := Options{MinRunSize: 8, PageWidth: 80, Threshold: 1, MainOnly: true}
	require_ := assert.New(t)
	require_.NoError(o.Validate(false, false))
	require_.True(o.Percent)
	require_.True(o.EachToEach)
	require_.True(o.NoSelf)
}
