package linkaudit

import (
	"github.com/temoto/robotstxt"
)

// RobotsChecker checks paths against robots.txt rules.
type RobotsChecker struct {
	robotsData *robotstxt.RobotsData
}

// LoadRobots parses robots.txt content into the checker.
func (rc *RobotsChecker) LoadRobots(content string) error {
	robots, err := robotstxt.FromString(content)
	if err != nil {
		return err
	}
	rc.robotsData = robots
	return nil
}

// IsAllowed reports whether userAgent may visit path. A checker with nothing
// loaded allows everything.
func (rc *RobotsChecker) IsAllowed(path, userAgent string) bool {
	if rc == nil || rc.robotsData == nil {
		return true
	}
	return rc.robotsData.TestAgent(path, userAgent)
}

// NewRobotsChecker creates a RobotsChecker loaded with robotsTxt.
func NewRobotsChecker(robotsTxt string) (*RobotsChecker, error) {
	rc := &RobotsChecker{}
	if err := rc.LoadRobots(robotsTxt); err != nil {
		return nil, err
	}
	return rc, nil
}
