package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/codemap"
	"github.com/jward/codemap/internal/config"
)

func testConfig(database string) *config.Config {
	cfg := config.Default()
	cfg.Database = database
	return cfg
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.ErrorContains(t, validateFormat("yaml"), "invalid format")
}

func TestParseCategories(t *testing.T) {
	orig := flagCategories
	defer func() { flagCategories = orig }()

	flagCategories = ""
	assert.Nil(t, parseCategories())

	flagCategories = "type, function"
	assert.Equal(t, []codemap.Category{codemap.CategoryType, codemap.CategoryFunction}, parseCategories())
}

func TestResolveDBPathPrecedence(t *testing.T) {
	orig := flagDB
	defer func() { flagDB = orig }()

	cfg := testConfig("relative/map.db")

	flagDB = ""
	assert.Equal(t, "/project/relative/map.db", resolveDBPath("/project", cfg))

	flagDB = "/abs/override.db"
	assert.Equal(t, "/abs/override.db", resolveDBPath("/project", cfg))
}
