package dataprocessing

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterprep/pkg/contracts/domain"
)

func TestIsDog(t *testing.T) {
	var buf bytes.Buffer
	deriver := NewDeriver(slog.New(slog.NewJSONHandler(&buf, nil)))

	got := deriver.IsDog([]string{"Dog", "cat", "Bird", "DOG", "Cat"})
	assert.Equal(t, []bool{true, false, false, true, false}, got)

	// Exactly one anomaly diagnostic, for the bird.
	logged := strings.TrimSpace(buf.String())
	require.NotEmpty(t, logged)
	lines := strings.Split(logged, "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Bird")
	assert.Contains(t, lines[0], `"level":"ERROR"`)
}

func TestIsDogNoAnomalies(t *testing.T) {
	var buf bytes.Buffer
	deriver := NewDeriver(slog.New(slog.NewJSONHandler(&buf, nil)))

	got := deriver.IsDog([]string{"dog", "cat"})
	assert.Equal(t, []bool{true, false}, got)
	assert.Empty(t, buf.String())
}

func TestHasName(t *testing.T) {
	got := HasName([]string{"Hambone", "Unknown", "unknown", "UNKNOWN", "Gus"})
	assert.Equal(t, []bool{true, false, false, false, true}, got)
}

func TestClassifySex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Spayed Female", "female"},
		{"Intact Female", "female"},
		{"Neutered Male", "male"},
		{"Intact Male", "male"},
		{"Unknown", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, ClassifySex([]string{tt.in}))
		})
	}
}

// A value ending in "Female" also ends in "Male"; the female check runs
// first and must never be overwritten.
func TestClassifySexFemaleSuffixNeverMale(t *testing.T) {
	for _, v := range []string{"Female", "Spayed Female", "Intact Female", "Something Female"} {
		got := ClassifySex([]string{v})
		assert.Equal(t, "female", got[0], "value %q classified as %q", v, got[0])
	}
}

func TestClassifyNeutered(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Spayed Female", "fixed"},
		{"Neutered Male", "fixed"},
		{"Intact Male", "intact"},
		{"Intact Female", "intact"},
		{"Unknown", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, ClassifyNeutered([]string{tt.in}))
		})
	}
}

func TestClassifyHairType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Domestic Shorthair Mix", "shorthair"},
		{"Domestic Longhair", "longhair"},
		{"Domestic Medium Hair Mix", "medium hair"},
		{"Beagle Mix", "unknown"},
		{"Unknown", "unknown"},
		// Documented tie-break: shorthair is checked first and wins.
		{"Longhair Shorthair Cross", "shorthair"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, ClassifyHairType([]string{tt.in}))
		})
	}
}

func TestComputeDaysUponOutcome(t *testing.T) {
	tests := []struct {
		in        string
		want      float64
		wantValid bool
	}{
		{"2 years", 730, true},
		{"1 year", 365, true},
		{"3 weeks", 21, true},
		{"2 months", 60, true},
		{"1 day", 1, true},
		{"4 days", 4, true},
		{"Unknown", 0, false},
		{"5 fortnights", 0, false},
		{"many years", 0, false},
		{"", 0, false},
		{"1 year extra", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			days, valid := ComputeDaysUponOutcome([]string{tt.in})
			assert.Equal(t, tt.wantValid, valid[0])
			if tt.wantValid {
				assert.Equal(t, tt.want, days[0])
			}
		})
	}
}

func featureFixture(t *testing.T) *domain.Table {
	t.Helper()
	tbl := domain.NewTable()
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColAnimalType, []string{"Dog", "Cat", "Bird"})))
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColName, []string{"Hambone", "Unknown", "Gus"})))
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColSexUponOutcome, []string{"Neutered Male", "Spayed Female", "Unknown"})))
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColBreed, []string{"Beagle Mix", "Domestic Shorthair Mix", "Unknown"})))
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColAgeUponOutcome, []string{"2 years", "3 weeks", "Unknown"})))
	return tbl
}

func TestAddFeatures(t *testing.T) {
	input := featureFixture(t)
	deriver := NewDeriver(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	out, err := deriver.AddFeatures(input)
	require.NoError(t, err)

	// Row count and original columns survive.
	assert.Equal(t, input.Len(), out.Len())
	for _, name := range input.Names() {
		assert.True(t, out.HasColumn(name), "original column %q dropped", name)
	}

	// The input table is never mutated.
	assert.False(t, input.HasColumn(ColIsDog))
	assert.Equal(t, 5, input.NumColumns())

	isDog, ok := out.Column(ColIsDog)
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, false}, isDog.Bools)

	hasName, ok := out.Column(ColHasName)
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true}, hasName.Bools)

	sex, ok := out.Column(ColSex)
	require.True(t, ok)
	assert.Equal(t, []string{"male", "female", "unknown"}, sex.Strings)

	neutered, ok := out.Column(ColNeutered)
	require.True(t, ok)
	assert.Equal(t, []string{"fixed", "fixed", "unknown"}, neutered.Strings)

	hair, ok := out.Column(ColHairType)
	require.True(t, ok)
	assert.Equal(t, []string{"unknown", "shorthair", "unknown"}, hair.Strings)

	days, ok := out.Column(ColDaysUponOutcome)
	require.True(t, ok)
	assert.Equal(t, []float64{730, 21, 0}, days.Floats)
	assert.Equal(t, []bool{true, true, false}, days.Valid)
}

func TestAddFeaturesIdempotent(t *testing.T) {
	deriver := NewDeriver(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	once, err := deriver.AddFeatures(featureFixture(t))
	require.NoError(t, err)
	twice, err := deriver.AddFeatures(once)
	require.NoError(t, err)

	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, once.Names(), twice.Names())
	for _, name := range []string{ColIsDog, ColHasName, ColSex, ColNeutered, ColHairType, ColDaysUponOutcome} {
		a, ok := once.Column(name)
		require.True(t, ok)
		b, ok := twice.Column(name)
		require.True(t, ok)
		assert.Equal(t, a, b, "derived column %q changed on re-derivation", name)
	}
}

func TestAddFeaturesMissingColumn(t *testing.T) {
	tbl := domain.NewTable()
	require.NoError(t, tbl.AddSeries(domain.NewStringSeries(ColAnimalType, []string{"Dog"})))

	deriver := NewDeriver(nil)
	_, err := deriver.AddFeatures(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestAddFeaturesWrongColumnKind(t *testing.T) {
	tbl := featureFixture(t)
	require.NoError(t, tbl.SetSeries(domain.NewBoolSeries(ColBreed, []bool{true, false, true})))

	deriver := NewDeriver(nil)
	_, err := deriver.AddFeatures(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want string")
}

// Sentinel-filled cells flow through every rule as "unknown", never a crash.
func TestAddFeaturesAllUnknownRow(t *testing.T) {
	tbl := domain.NewTable()
	for _, name := range []string{ColAnimalType, ColName, ColSexUponOutcome, ColBreed, ColAgeUponOutcome} {
		require.NoError(t, tbl.AddSeries(domain.NewStringSeries(name, []string{"Unknown"})))
	}

	deriver := NewDeriver(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	out, err := deriver.AddFeatures(tbl)
	require.NoError(t, err)

	isDog, _ := out.Column(ColIsDog)
	assert.Equal(t, []bool{false}, isDog.Bools)
	hasName, _ := out.Column(ColHasName)
	assert.Equal(t, []bool{false}, hasName.Bools)
	sex, _ := out.Column(ColSex)
	assert.Equal(t, []string{"unknown"}, sex.Strings)
	neutered, _ := out.Column(ColNeutered)
	assert.Equal(t, []string{"unknown"}, neutered.Strings)
	hair, _ := out.Column(ColHairType)
	assert.Equal(t, []string{"unknown"}, hair.Strings)
	days, _ := out.Column(ColDaysUponOutcome)
	assert.False(t, days.IsValid(0))
}
