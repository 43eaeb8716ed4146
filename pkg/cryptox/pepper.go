package cryptox

import (
	"os"
	"strings"
	"sync"
)

var (
	pepperMu   sync.RWMutex
	pepperPath string
	pepper     string
	pepperOnce sync.Once
)

// SetPepperPath configures the file the pepper is read from. Call before the
// first HashPassword/VerifyPassword; changing it afterwards has no effect.
func SetPepperPath(path string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperPath = path
}

// GetPepper returns the site-wide pepper appended to passwords before
// hashing. A missing or unreadable pepper file degrades to an empty pepper
// rather than failing signups.
func GetPepper() string {
	pepperOnce.Do(loadPepper)
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

func loadPepper() {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepperPath == "" {
		return
	}
	data, err := os.ReadFile(pepperPath)
	if err != nil {
		return
	}
	pepper = strings.TrimSpace(string(data))
}
