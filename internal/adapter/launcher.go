package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Launcher opens stream URLs in an external media player
type Launcher struct {
	command   string   // configured player command, empty for auto-detect
	args      []string // additional arguments for the player
	startFlag string   // resume offset flag prefix, e.g. "--start=" or "--start-time="
	logger    *slog.Logger
}

// offsetFlags maps known players to their resume-offset flag
var offsetFlags = map[string]string{
	"mpv":       "--start=",
	"vlc":       "--start-time=",
	"celluloid": "--mpv-start=",
	"haruna":    "--mpv-start=",
}

// candidatePlayers is the auto-detect order when no player is configured
var candidatePlayers = []string{"mpv", "vlc", "celluloid", "haruna"}

// NewLauncher creates a Launcher, auto-detecting the offset flag for known
// players when none is configured
func NewLauncher(command string, args []string, startFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	resolvedFlag := startFlag
	if resolvedFlag == "" && command != "" {
		base := strings.ToLower(strings.TrimSuffix(filepath.Base(command), filepath.Ext(command)))
		if flag, ok := offsetFlags[base]; ok {
			resolvedFlag = flag
			logger.Debug("auto-detected player offset flag", "player", base, "flag", resolvedFlag)
		}
	}

	return &Launcher{
		command:   command,
		args:      args,
		startFlag: resolvedFlag,
		logger:    logger,
	}
}

// Launch opens a stream URL, resuming at startOffset when the player supports it
func (l *Launcher) Launch(url string, startOffset time.Duration) error {
	if l.command != "" {
		return l.launchWith(l.command, l.startFlag, url, startOffset)
	}

	for _, player := range candidatePlayers {
		if _, err := exec.LookPath(player); err != nil {
			continue
		}
		l.logger.Info("launching with detected player", "player", player)
		return l.launchWith(player, offsetFlags[player], url, startOffset)
	}

	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

// launchWith starts the player asynchronously with an optional resume offset
func (l *Launcher) launchWith(command, startFlag, url string, startOffset time.Duration) error {
	args := append([]string{}, l.args...)

	if startOffset > 0 && startFlag != "" {
		args = append(args, fmt.Sprintf("%s%.0f", startFlag, startOffset.Seconds()))
	} else if startOffset > 0 {
		l.logger.Warn("cannot set start offset, configure start_flag in config",
			"command", command, "offset", startOffset)
	}

	args = append(args, url)
	l.logger.Info("launching player", "command", command, "args", args)

	return exec.Command(command, args...).Start()
}

// launchDefault opens the URL with the system default handler
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	return cmd.Start()
}
