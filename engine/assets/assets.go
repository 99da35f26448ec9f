package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/diazflack01/vulkan-playground/engine/core"
)

// AssetManager loads compiled SPIR-V shader binaries and watches the shader
// directory for changes. A change is only reported on the diagnostic channel
// (the log); pipelines are not rebuilt mid-run.
type AssetManager struct {
	shaderDir string

	mutex   sync.RWMutex
	touched map[string]time.Time

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		touched:  make(map[string]time.Time),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(shaderDir string) error {
	am.shaderDir = shaderDir

	if err := am.fsnotify.Add(shaderDir); err != nil {
		// A missing shader directory is a diagnostic, not an abort; the
		// failure surfaces at pipeline creation if a module never loads.
		core.LogWarn("shader directory %s is not watchable: %s", shaderDir, err)
		return nil
	}

	go am.start()
	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	am.isClosed = true
	close(am.done)
	return nil
}

// LoadShaderModule reads the named compiled shader ("triangle_mesh.vert"
// becomes <shaderDir>/triangle_mesh.vert.spv) and returns its bytes. SPIR-V
// words are 32-bit, so a size that is not a multiple of four is a truncated
// or corrupt file.
func (am *AssetManager) LoadShaderModule(name string) ([]byte, error) {
	path := filepath.Join(am.shaderDir, name+".spv")

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read shader module %s: %w", path, err)
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fmt.Errorf("shader module %s has invalid size %d", path, len(code))
	}

	am.mutex.Lock()
	am.touched[path] = time.Now()
	am.mutex.Unlock()

	return code, nil
}

func (am *AssetManager) start() {
	for {
		select {
		case e := <-am.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 && strings.HasSuffix(e.Name, ".spv") {
				core.LogInfo("shader %s changed on disk; restart to pick it up", e.Name)
			}

		case e := <-am.fsnotify.Errors:
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}
