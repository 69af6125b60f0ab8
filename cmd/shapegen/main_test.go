package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hanpama/shapegen/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestHelp(t *testing.T) {
	out, _, err := runCLI(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "COMMANDS:")

	out, _, err = runCLI(t, "help", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "generate FLAGS")

	_, _, err = runCLI(t, "help", "serve")
	assert.EqualError(t, err, `unknown help topic "serve"`)
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := runCLI(t, "serve")
	assert.EqualError(t, err, `unknown command "serve"`)
	assert.Contains(t, stderr, "USAGE:")

	_, _, err = runCLI(t)
	assert.EqualError(t, err, "missing command")
}

func TestGenerate(t *testing.T) {
	out, _, err := runCLI(t, "generate",
		"-schema", filepath.Join("testdata", "schema.graphql"),
		"-documents", filepath.Join("testdata", "me.graphql"),
		"-avoid-optionals",
		"-scalar", "DateTime=Date",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "export type Maybe<T> = T | null;")
	assert.Contains(t, out, "export enum Role {")
	assert.Contains(t, out, "export type DateTime = Date;")
	assert.Contains(t, out, "export namespace Me {")
	assert.Contains(t, out, "    role: Maybe<Role>;\n")
}

func TestGenerateWithConfig(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "gen", "types.ts")
	_, _, err := runCLI(t, "generate", "-config", filepath.Join("testdata", "codegen.yaml"), "-out", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "// Code generated by shapegen. DO NOT EDIT.\n")
	assert.Contains(t, out, "export type Role = 'ADMIN' | 'VIEWER';")
	assert.Contains(t, out, "    joinedAt?: Maybe<string>;\n")

	// A flag overrides the file.
	out, _, err = runCLI(t, "generate", "-config", filepath.Join("testdata", "codegen.yaml"), "-enums-as-types=false")
	require.NoError(t, err)
	assert.Contains(t, out, "export enum Role {")
}

func TestGenerateValidationError(t *testing.T) {
	_, _, err := runCLI(t, "generate",
		"-schema", filepath.Join("testdata", "schema.graphql"),
		"-documents", filepath.Join("testdata", "broken.graphql"),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrInvalidDocument))
	assert.Contains(t, err.Error(), "unknownField")
}

func TestGenerateRequiresSchema(t *testing.T) {
	_, stderr, err := runCLI(t, "generate")
	assert.EqualError(t, err, "-schema is required")
	assert.Contains(t, stderr, "generate FLAGS")
}

func TestCompileProto(t *testing.T) {
	out, _, err := runCLI(t, "compile-proto", "-config", filepath.Join("testdata", "codegen.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "package users.v1;")
	assert.Contains(t, out, "message User {")
	assert.Contains(t, out, "int64 joined_at")
	assert.Contains(t, out, "message Me {")

	outDir := t.TempDir()
	_, _, err = runCLI(t, "compile-proto",
		"-schema", filepath.Join("testdata", "schema.graphql"),
		"-proto.path", "users/v1/users.proto",
		"-out", outDir,
	)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "users", "v1", "users.proto"))
	assert.NoError(t, err)
}

func TestPrintSchema(t *testing.T) {
	out, _, err := runCLI(t, "print-schema", "-schema", filepath.Join("testdata", "schema.graphql"))
	require.NoError(t, err)
	assert.Contains(t, out, "type Query {")
	assert.Contains(t, out, "enum Role {")
	assert.Contains(t, out, "scalar DateTime")
	assert.NotContains(t, out, "scalar String")
}

func TestMappingFlag(t *testing.T) {
	m := mappingFlag{}
	require.NoError(t, m.Set("DateTime = string"))
	assert.Equal(t, "string", m["DateTime"])
	assert.Error(t, m.Set("DateTime"))
	assert.Error(t, m.Set("=string"))
}
