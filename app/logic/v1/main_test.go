package v1_test

import (
	"os"
	"testing"

	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.SetupIDWorker(1)
	os.Exit(m.Run())
}
