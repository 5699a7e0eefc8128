package app

import (
	"os"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/vedit/internal/config"
	"github.com/kobzarvs/vedit/internal/editor"
	"github.com/kobzarvs/vedit/internal/fold"
	"github.com/kobzarvs/vedit/internal/gitinfo"
	"github.com/kobzarvs/vedit/internal/logger"
	"github.com/kobzarvs/vedit/internal/regions"
	"github.com/kobzarvs/vedit/internal/session"
)

// App is the top-level runtime for vedit.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	if err := logger.Init(os.Getenv("VEDIT_DEBUG") != ""); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	eng := regions.New(langs)
	if err := eng.Start(); err != nil {
		return err
	}
	defer func() { _ = eng.Stop() }()

	sess := session.New(fold.NewStore())
	ed := editor.New(cfg, sess)
	defer ed.Shutdown()

	sm, err := session.NewManager()
	if err == nil {
		ed.SetSessionManager(sm)
	} else {
		logger.Warn("session manager unavailable", "error", err)
	}

	gitPath := ""
	var openPath string
	var langName string
	if len(a.args) > 0 {
		openPath = a.args[0]
	} else if sm != nil {
		// No file argument: reopen the last active file, if any.
		if last := sm.GetActiveFile(); last != "" {
			if _, err := os.Stat(last); err == nil {
				openPath = last
			}
		}
	}
	if openPath != "" {
		if err := ed.OpenFile(openPath); err != nil {
			return err
		}
		gitPath = openPath
		if lang := langs.Match(openPath); lang != nil {
			langName = lang.Name
		}
	}
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))

	refreshRegions := func(sync bool) {
		if openPath == "" || langName == "" {
			return
		}
		if sync {
			if eng.ParseSync(openPath, langName, ed.Content()) {
				sess.SetRegions(eng.Regions(openPath))
			}
			return
		}
		eng.Parse(openPath, langName, ed.Content())
	}
	refreshRegions(true)

	// Parse events from the async path land here; an interrupt wakes
	// the poll loop so regions show up without user input.
	go func() {
		for ev := range eng.Events() {
			if ev.Kind == regions.EventParsed {
				_ = s.PostEvent(tcell.NewEventInterrupt(ev.Path))
			}
		}
	}()

	lastGitCheck := time.Now()
	lastChangeTick := ed.ChangeTick()
	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if path, ok := ev.Data().(string); ok && path == openPath {
				sess.SetRegions(eng.Regions(openPath))
			}
		}
		if tick := ed.ChangeTick(); tick != lastChangeTick {
			lastChangeTick = tick
			refreshRegions(false)
		}
		if gitPath != "" && time.Since(lastGitCheck) > 2*time.Second {
			lastGitCheck = time.Now()
			ed.SetGitBranch(gitinfo.Branch(gitPath))
		}
		ed.Render(s)
	}
}
