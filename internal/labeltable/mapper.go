package labeltable

import (
	"errors"
	"path/filepath"
	"strings"
)

// Entry lists the frames to extract from one video.
type Entry struct {
	Video  string
	Path   string
	Frames []int
}

// VideoFrameMap is keyed by video path and keeps insertion order.
type VideoFrameMap struct {
	entries []*Entry
	index   map[string]int
}

func NewVideoFrameMap() *VideoFrameMap {
	return &VideoFrameMap{index: make(map[string]int)}
}

// Add appends frames to the entry for path, creating it on first use.
func (m *VideoFrameMap) Add(video, path string, frames ...int) {
	i, ok := m.index[path]
	if !ok {
		i = len(m.entries)
		m.index[path] = i
		m.entries = append(m.entries, &Entry{Video: video, Path: path, Frames: []int{}})
	}
	m.entries[i].Frames = append(m.entries[i].Frames, frames...)
}

func (m *VideoFrameMap) Len() int { return len(m.entries) }

func (m *VideoFrameMap) Frames(path string) ([]int, bool) {
	i, ok := m.index[path]
	if !ok {
		return nil, false
	}
	return append([]int(nil), m.entries[i].Frames...), true
}

// Entries returns copies of the entries in first-appearance order.
func (m *VideoFrameMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Video: e.Video, Path: e.Path, Frames: append([]int(nil), e.Frames...)}
	}
	return out
}

// Mapper turns a label table into a VideoFrameMap.
type Mapper struct {
	ProjectDir string
	// VideoExt replaces the suffix of every video id; "avi" and ".avi" are equivalent.
	VideoExt string
	// MatchSubstring assigns a row to every video whose id is contained in
	// the row's identifier cell instead of grouping by exact id.
	MatchSubstring bool
}

func (m Mapper) VideoPath(video string) string {
	ext := m.VideoExt
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := strings.TrimSuffix(video, filepath.Ext(video)) + ext
	return filepath.Join(m.ProjectDir, name)
}

func (m Mapper) Map(t *Table) (*VideoFrameMap, error) {
	ids, err := t.Identifiers()
	if err != nil {
		return nil, err
	}

	frames := make([]int, len(ids))
	for i, id := range ids {
		idx, err := ParseFrameIndex(id.Frame)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Row = id.Row
			}
			return nil, err
		}
		frames[i] = idx
	}

	out := NewVideoFrameMap()
	if !m.MatchSubstring {
		for i, id := range ids {
			out.Add(id.Video, m.VideoPath(id.Video), frames[i])
		}
		return out, nil
	}

	var videos []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if !seen[id.Video] {
			seen[id.Video] = true
			videos = append(videos, id.Video)
		}
	}
	for _, video := range videos {
		path := m.VideoPath(video)
		out.Add(video, path)
		for i, id := range ids {
			if strings.Contains(id.Key, video) {
				out.Add(video, path, frames[i])
			}
		}
	}
	return out, nil
}

// MapFile loads projectDir/labelsFile and maps it with default grouping.
func MapFile(projectDir, labelsFile, ext string) (*VideoFrameMap, error) {
	t, err := Load(filepath.Join(projectDir, labelsFile))
	if err != nil {
		return nil, err
	}
	return Mapper{ProjectDir: projectDir, VideoExt: ext}.Map(t)
}
