package labeltable

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentCSV = `scorer,,,Mackenzie,Mackenzie,Mackenzie,Mackenzie
bodyparts,,,Hand,Hand,Finger1,Finger1
coords,,,x,y,x,y
labeled-data,reachingvideo1,img005.png,10.5,20,11,21
labeled-data,reachingvideo1,img040.png,12,22.25,,
labeled-data,reachingvideo2,img003.png,1,2,3,4
labeled-data,reachingvideo1,img012.png,5,6,7,8
`

const legacyCSV = `scorer,Mackenzie,Mackenzie,Mackenzie,Mackenzie
bodyparts,Hand,Hand,Finger1,Finger1
coords,x,y,x,y
labeled-data/reachingvideo1/img005.png,10.5,20,11,21
labeled-data/reachingvideo1/img040.png,12,22.25,,
labeled-data/reachingvideo2/img003.png,1,2,3,4
`

func mustRead(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(s))
	require.NoError(t, err)
	return tbl
}

func TestFormatDetection(t *testing.T) {
	f, err := mustRead(t, currentCSV).Format()
	require.NoError(t, err)
	assert.Equal(t, FormatCurrent, f)

	f, err = mustRead(t, legacyCSV).Format()
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, f)

	pandas := strings.Replace(currentCSV, "coords,,,", "coords,Unnamed: 1_level_1,Unnamed: 2_level_1,", 1)
	f, err = mustRead(t, pandas).Format()
	require.NoError(t, err)
	assert.Equal(t, FormatCurrent, f)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("scorer,a\nbodyparts,b\n"))
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, -1, fe.Row)

	tbl := mustRead(t, "scorer\nbodyparts\ncoords\n")
	_, err = tbl.Format()
	assert.ErrorAs(t, err, &fe)
}

func TestIdentifiersLegacyMatchesRawString(t *testing.T) {
	tbl := mustRead(t, legacyCSV)
	ids, err := tbl.Identifiers()
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for i, id := range ids {
		raw := tbl.Rows[i][0]
		assert.Equal(t, raw, id.Key)
		assert.Equal(t, "labeled-data/"+id.Video+"/"+id.Frame, raw)

		viaSplit, err := ParseFrameIndex(id.Frame)
		require.NoError(t, err)
		direct, err := ParseFrameIndex(raw[strings.LastIndex(raw, "/"):])
		require.NoError(t, err)
		assert.Equal(t, direct, viaSplit)
	}
}

func TestIdentifiersShortLegacyPath(t *testing.T) {
	tbl := mustRead(t, "scorer,a\nbodyparts,b\ncoords,x\nimg005.png,1\n")
	_, err := tbl.Identifiers()

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Row)
}

func TestParseFrameIndex(t *testing.T) {
	tests := []struct {
		cell    string
		want    int
		wantErr bool
	}{
		{"img005.png", 5, false},
		{"img0042.png", 42, false},
		{"frame12_cam3.png", 12, false},
		{"7", 7, false},
		{"img.png", 0, true},
		{"", 0, true},
		{"img99999999999999999999999.png", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := ParseFrameIndex(tt.cell)
			if tt.wantErr {
				var pe *ParseError
				assert.True(t, errors.As(err, &pe), "want ParseError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	tbl := mustRead(t, currentCSV)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	assert.Equal(t, currentCSV, buf.String())

	path := filepath.Join(t.TempDir(), "CollectedData_Mackenzie.csv")
	require.NoError(t, tbl.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tbl, loaded)
}
