package handlers_integrated_test_suite

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("DATABASE_URL not set, skipping integrated handler tests")
		os.Exit(0)
	}

	if err := setupTestRepos(dbURL); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	resetCatalog()

	code := m.Run()
	teardown()
	os.Exit(code)
}
