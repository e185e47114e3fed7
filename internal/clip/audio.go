// Package clip assembles ffmpeg argument lists for clip, frame and live
// segment extraction. Nothing here runs a process.
package clip

import (
	"path/filepath"
	"strings"
)

// Filters applied when a re-encoded clip carries more than two channels.
const (
	Filter51     = "channelmap=map=FL-FL|FR-FR|FC-FC|LFE-LFE|BL-BL|BR-BR:channel_layout=5.1"
	Filter51Side = "channelmap=map=FL-FL|FR-FR|FC-FC|LFE-LFE|SL-BL|SR-BR:channel_layout=5.1"
	Filter71     = "aformat=channel_layouts=7.1"
	FilterStereo = "pan=stereo|FL=0.5*FL+0.707*FC+0.5*BL+0.5*SL|FR=0.5*FR+0.707*FC+0.5*BR+0.5*SR"
)

// reencodeContainers hold audio that does not survive a stream copy into mp4.
var reencodeContainers = map[string]bool{
	"mkv":  true,
	"webm": true,
	"avi":  true,
	"mov":  true,
}

// AudioArgs returns the audio codec arguments for cutting a clip out of
// source whose first audio stream has the given channel layout.
//
// The table is stable: cached clip names are derived from its output.
func AudioArgs(source, layout string) []string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(source)), ".")
	if !reencodeContainers[ext] {
		return []string{"-c:a", "copy"}
	}

	args := []string{"-c:a", "aac"}
	if filter := layoutFilter(strings.ToLower(layout)); filter != "" {
		args = append(args, "-af", filter)
	}
	return args
}

func layoutFilter(layout string) string {
	switch layout {
	case "", "mono", "stereo":
		return ""
	case "5.1":
		return Filter51
	case "5.1(side)":
		return Filter51Side
	case "7.1", "7.1(wide)", "7.1(wide-side)":
		return Filter71
	default:
		return FilterStereo
	}
}
