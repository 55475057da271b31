package pipeline

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/display"
	"github.com/backmassage/themis/internal/logging"
	"github.com/backmassage/themis/internal/planner"
	"github.com/backmassage/themis/internal/probe"
)

// InspectRow is the probed summary of one file and what the settings would
// do to it.
type InspectRow struct {
	Name     string
	Desc     *probe.MediaDescriptor
	Ratio    float64 // Reclock ratio; 0 when not reclocked.
	Geometry string  // Rendered geometry filters; "" when the frame is kept.
	Notes    []string
}

// Inspect probes every file in inputs (directories expanded with Discover)
// and reports how s would treat it. No analysis pass or encode is run.
// Files that cannot be probed are logged and left out.
func Inspect(ctx context.Context, inputs []string, s *config.Settings, prober probe.Prober, log *logging.Logger) ([]InspectRow, error) {
	files, err := ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warn("No media files found")
		return nil, nil
	}

	rows := make([]InspectRow, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			return rows, ctx.Err()
		}
		desc, err := prober.Probe(ctx, path)
		if err != nil {
			log.Warn("Skip (probe failed): %s", filepath.Base(path))
			continue
		}
		rows = append(rows, inspectRow(path, desc, s))
	}
	return rows, nil
}

func inspectRow(path string, desc *probe.MediaDescriptor, s *config.Settings) InspectRow {
	row := InspectRow{Name: filepath.Base(path), Desc: desc}
	if !desc.HasVideo() {
		row.Notes = append(row.Notes, "no video")
		return row
	}
	if ratio, ok := planner.ReclockRatio(desc.FrameRate, s.FrameRate); ok {
		row.Ratio = ratio
	}
	row.Geometry = planner.JoinFilters(planner.FitGeometry(s.Width, s.Height, desc.Width, desc.Height, desc.AspectRatio))
	if desc.FieldOrderInterlaced() {
		row.Notes = append(row.Notes, "field order "+desc.FieldOrder)
	}
	if s.AudioMode == config.AudioModeStereo && len(desc.AudioTracks) > 1 {
		row.Notes = append(row.Notes, strconv.Itoa(len(desc.AudioTracks)-1)+" audio track(s) dropped")
	}
	return row
}

// RenderInspect renders rows as a table.
func RenderInspect(rows []InspectRow) string {
	headers := []string{"File", "Video", "FPS", "Frames", "Duration", "Audio", "Reclock", "Geometry", "Notes"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		d := r.Desc
		reclock := "-"
		if r.Ratio > 0 {
			reclock = strconv.FormatFloat(r.Ratio, 'f', 4, 64)
		}
		geometry := r.Geometry
		if geometry == "" {
			geometry = "-"
		}
		cells = append(cells, []string{
			r.Name,
			d.Resolution() + " " + d.VideoCodec,
			strconv.FormatFloat(d.FrameRate, 'f', 3, 64),
			strconv.Itoa(d.NumFrames),
			display.FormatTimecode(d.Duration),
			strconv.Itoa(len(d.AudioTracks)),
			reclock,
			geometry,
			strings.Join(r.Notes, "; "),
		})
	}
	aligns := []display.Align{
		display.AlignLeft, display.AlignLeft, display.AlignRight, display.AlignRight,
		display.AlignRight, display.AlignRight, display.AlignRight,
	}
	return display.RenderTable(headers, cells, aligns)
}
