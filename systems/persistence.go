package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

// SavedProfile is the login form state stored between runs. The password is
// never stored.
type SavedProfile struct {
	ServerURL string `json:"serverURL"`
	Username  string `json:"username"`
	ShowGrid  bool   `json:"showGrid"`
}

const profileKey = "profile"

var gdataManager *gdata.Manager

// InitPersistence opens the per-user data directory for appName
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[persist] could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadProfile returns the saved profile, or nil if nothing usable is stored
func LoadProfile() *SavedProfile {
	if gdataManager == nil {
		return nil
	}

	data, err := gdataManager.LoadItem(profileKey)
	if err != nil {
		log.Printf("[persist] could not load profile: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}

	var p SavedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[persist] could not parse saved profile: %v", err)
		return nil
	}
	return &p
}

// SaveProfile writes p to disk. A missing data directory is not an error.
func SaveProfile(p SavedProfile) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := gdataManager.SaveItem(profileKey, data); err != nil {
		log.Printf("[persist] could not save profile: %v", err)
		return err
	}
	return nil
}
