package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/annotation"
	"github.com/void2byte/voice2text/internal/config"
)

// providers in menu order.
var providers = []string{"whisper", "google", "yandex", "mock"}

// UI is the system tray shell. It drives the annotation engine through its
// public methods and mirrors engine events into the tray title, implementing
// annotation.Listener.
type UI struct {
	engine  *annotation.Engine
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mStartStop *systray.MenuItem
	mRecognize *systray.MenuItem
	mFinalize  *systray.MenuItem
	mCancel    *systray.MenuItem
	mProviders *systray.MenuItem
	mDevices   *systray.MenuItem

	mu          sync.Mutex
	recording   bool
	recognizing bool
}

func New(engine *annotation.Engine, cfg *config.Config, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		engine:  engine,
		cfg:     cfg,
		version: version,
		commit:  commit,
		log:     log.With().Str("component", "tray").Logger(),
	}
}

func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

// --- annotation.Listener ---

func (u *UI) OnLevel(level float64) {
	// The tray has no meter; a loud input nudges the tooltip instead.
	if level > 0.5 {
		systray.SetTooltip(fmt.Sprintf("Recording... level %.0f%%", level*100))
	}
}

func (u *UI) OnRecordingChanged(recording bool) {
	u.mu.Lock()
	u.recording = recording
	u.mu.Unlock()
	if recording {
		u.updateStatus("recording")
		u.setStartStopTitle("Stop Recording")
	} else {
		u.setStartStopTitle("Start Recording")
	}
}

func (u *UI) OnRecognizingChanged(recognizing bool) {
	u.mu.Lock()
	u.recognizing = recognizing
	u.mu.Unlock()
	if recognizing {
		u.updateStatus("recognizing")
	}
}

func (u *UI) OnTextChanged(text string) {
	if text == "" {
		return
	}
	u.updateStatus("ready")
	systray.SetTooltip(truncate(text, 80))
}

func (u *UI) OnError(message string) {
	u.updateStatus("error")
	systray.SetTooltip(message)
	u.log.Warn().Str("message", message).Msg("Engine reported an error")
}

func (u *UI) OnAnnotation(rec annotation.Record) {
	u.updateStatus("idle")
	systray.SetTooltip("Voice annotations")
	u.log.Info().Str("annotation", rec.ID).Msg("Annotation submitted")
}

// --- menu ---

func (u *UI) onReady() {
	// Use emoji instead of icon - microphone with initial status
	u.updateStatus("idle")
	systray.SetTooltip("Voice annotations")

	// Build menu
	u.mu.Lock()
	u.mStartStop = systray.AddMenuItem("Start Recording", "Capture a voice annotation")
	u.mu.Unlock()
	u.mRecognize = systray.AddMenuItem("Recognize", "Run recognition on the last take")
	u.mFinalize = systray.AddMenuItem("Finalize", "Submit the annotation")
	u.mCancel = systray.AddMenuItem("Cancel", "Discard the current attempt")
	systray.AddSeparator()

	u.mProviders = systray.AddMenuItem("Recognizer", "Select speech recognizer")
	u.buildProviderMenu()

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio device")
	u.buildDeviceMenu()

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About voice2text")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mAbout, mQuit)
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mStartStop.ClickedCh:
			u.toggleRecording()
		case <-u.mRecognize.ClickedCh:
			u.engine.Recognize()
		case <-u.mFinalize.ClickedCh:
			u.engine.Finalize()
		case <-u.mCancel.ClickedCh:
			u.engine.Cancel()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) setStartStopTitle(title string) {
	u.mu.Lock()
	item := u.mStartStop
	u.mu.Unlock()
	if item != nil {
		item.SetTitle(title)
	}
}

func (u *UI) toggleRecording() {
	u.mu.Lock()
	recording := u.recording
	u.mu.Unlock()
	if recording {
		u.engine.StopRecording()
	} else {
		u.engine.StartRecording()
	}
}

func (u *UI) buildProviderMenu() {
	providerItems := make(map[string]*systray.MenuItem)

	for _, provider := range providers {
		item := u.mProviders.AddSubMenuItem(provider, "")
		if provider == u.cfg.Recognizer.Provider {
			item.Check()
		}
		providerItems[provider] = item

		go func(p string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				// Uncheck all other items
				for name, itm := range providerItems {
					if name != p {
						itm.Uncheck()
					}
				}
				// Check this item
				menuItem.Check()
				rc := u.cfg.Recognizer
				rc.Provider = p
				u.log.Info().Str("provider", p).Msg("Changing recognizer")
				u.engine.SetProvider(rc)
			}
		}(provider, item)
	}
}

func (u *UI) buildDeviceMenu() {
	devices, err := u.engine.Devices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
		return
	}

	deviceItems := make(map[string]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name, "")
		if dev.Default {
			item.Check()
		}
		deviceItems[dev.ID] = item

		go func(deviceID, deviceName string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				// Uncheck all other items
				for id, itm := range deviceItems {
					if id != deviceID {
						itm.Uncheck()
					}
				}
				// Check this item
				menuItem.Check()
				u.cfg.Audio.DeviceID = deviceID
				u.log.Info().Str("device", deviceName).Msg("Changed audio device")
			}
		}(dev.ID, dev.Name, item)
	}
}

func (u *UI) showAbout() {
	// TODO: Show about dialog with native UI
	fmt.Printf("voice2text %s (%s)\nVoice annotations\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with microphone emoji and status indicator
func (u *UI) updateStatus(status string) {
	emoji := emojiForStatus(status)
	systray.SetTitle(fmt.Sprintf("🎤 %s", emoji))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "recognizing":
		return "🟡" // Yellow - recognition in progress
	case "ready":
		return "🔵" // Blue - text ready for review
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to ready
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
