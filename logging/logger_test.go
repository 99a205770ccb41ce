package logging

import "testing"

func TestSetLevelSuppressesLowerPriorityMessages(t *testing.T) {
	l := NewLogger(LogLevelWarn, "[test] ")
	// Debugf at LogLevelWarn must not panic and is simply dropped; there is no public
	// way to observe suppression without capturing os.Stdout, so this only exercises
	// the level-gate branch for coverage of the guard itself.
	l.Debugf("should be suppressed: %d", 1)
	l.Errorf("should print: %d", 2)
}

func TestNilLoggerMethodsAreSafe(t *testing.T) {
	var l *Logger
	l.Infof("no-op")
	l.SetLevel(LogLevelDebug)
}

func TestGetAndSetLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	replacement := NewLogger(LogLevelDebug, "[swap] ")
	SetLogger(replacement)
	if GetLogger() != replacement {
		t.Fatalf("expected GetLogger to return the replacement logger")
	}
}
