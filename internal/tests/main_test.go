package tests_test

import (
	"os"
	"testing"

	"github.com/uksimracing/website/internal/tests"
)

var fixture *tests.Fixture //nolint:gochecknoglobals

func TestMain(m *testing.M) {
	fixture = tests.NewFixture()

	code := m.Run()

	fixture.Close()
	os.Exit(code)
}
