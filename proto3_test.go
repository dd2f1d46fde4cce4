package proto3

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseSource_MissingSyntaxDeclIsAParseError(t *testing.T) {
	_, err := ParseSource(`message M {}`, "bad.proto")
	require.Error(t, err)
	var parseErr *protoerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Hint, "syntax")
}

func Test_ParseSource_RejectsProto2(t *testing.T) {
	_, err := ParseSource(`syntax = "proto2";`, "bad.proto")
	require.Error(t, err)
	var parseErr *protoerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "unsupported syntax")
	assert.Contains(t, parseErr.Hint, "proto3")
}

const sampleSource = `syntax = "proto3";

package catalog.v1;

import "google/protobuf/timestamp.proto";
import public "common.proto";

option go_package = "example.com/catalog";

message Item {
  reserved 9, 11 to max;

  string name = 1;
  int32 quantity = 2 [deprecated = true];
  repeated string tags = 3;
  map<string, int32> attributes = 4;

  oneof identifier {
    string sku = 5;
    int64 legacy_id = 6;
  }

  enum Status {
    STATUS_UNSPECIFIED = 0;
    STATUS_ACTIVE = 1;
    STATUS_RETIRED = 2;
  }
}

service Catalog {
  rpc GetItem(GetItemRequest) returns (Item);
  rpc ListItems(ListItemsRequest) returns (stream Item);
  rpc Import(stream ImportRequest) returns (ImportSummary);
  rpc Sync(stream SyncRequest) returns (stream SyncReply) {
    option idempotency_level = IDEMPOTENT;
  }
}
`

func Test_ParseSource_FullSample_RoundTripsThroughFormat(t *testing.T) {
	f, err := ParseSource(sampleSource, "catalog.proto")
	require.NoError(t, err)

	require.NotNil(t, f.Package)
	assert.Equal(t, "catalog.v1", f.Package.Name)
	require.Len(t, f.Imports, 2)
	require.Len(t, f.Messages, 1)
	require.Len(t, f.Services, 1)

	item := f.Messages[0]
	assert.Equal(t, "Item", item.Name)
	require.Len(t, item.Fields, 4)
	require.Len(t, item.Oneofs, 1)
	require.Len(t, item.NestedEnums, 1)
	require.Len(t, item.Reserveds, 1)

	svc := f.Services[0]
	require.Len(t, svc.Rpcs, 4)
	assert.True(t, svc.Rpcs[1].OutputStream)
	assert.True(t, svc.Rpcs[2].InputStream)
	assert.True(t, svc.Rpcs[3].InputStream)
	assert.True(t, svc.Rpcs[3].OutputStream)
	require.Len(t, svc.Rpcs[3].Options, 1)

	formatted := f.Format()
	reparsed, err := ParseSource(formatted, "catalog.proto")
	require.NoError(t, err)
	assert.Equal(t, formatted, reparsed.Format())
}

func Test_ParseSource_MaxIsUsableAsAnIdentifier(t *testing.T) {
	const src = `syntax = "proto3";

message max {
  int32 max = 1;
  reserved 9, 11 to max;
}
`
	f, err := ParseSource(src, "max.proto")
	require.NoError(t, err)

	require.Len(t, f.Messages, 1)
	m := f.Messages[0]
	assert.Equal(t, "max", m.Name)
	require.Len(t, m.Fields, 1)
	assert.Equal(t, "max", m.Fields[0].Name)

	require.Len(t, m.Reserveds, 1)
	require.Len(t, m.Reserveds[0].Ranges, 2)
	assert.False(t, m.Reserveds[0].Ranges[0].ToMax)
	assert.True(t, m.Reserveds[0].Ranges[1].ToMax)
}

func Test_ParseSource_FieldOptionSpanCoversNameAndValue(t *testing.T) {
	const src = `syntax = "proto3";

message M {
  int32 id = 1 [deprecated = true];
}
`
	f, err := ParseSource(src, "opt.proto")
	require.NoError(t, err)

	require.Len(t, f.Messages, 1)
	require.Len(t, f.Messages[0].Fields, 1)
	require.Len(t, f.Messages[0].Fields[0].Options, 1)

	opt := f.Messages[0].Fields[0].Options[0]
	start, end := opt.Span.StartOffset, opt.Span.EndOffset
	assert.Equal(t, "deprecated = true", src[start:end])
}

func Test_ParseFiles_ResolvesImportAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.proto")
	depPath := filepath.Join(dir, "dep.proto")

	require.NoError(t, os.WriteFile(depPath, []byte(`syntax = "proto3";

message Dep {
  string value = 1;
}
`), 0o644))
	require.NoError(t, os.WriteFile(mainPath, []byte(`syntax = "proto3";

import "dep.proto";

message Main {
  Dep dep = 1;
}
`), 0o644))

	res, err := ParseFiles([]string{mainPath}, nil)
	require.NoError(t, err)

	absMain, err := filepath.Abs(mainPath)
	require.NoError(t, err)
	absDep, err := filepath.Abs(depPath)
	require.NoError(t, err)

	require.Contains(t, res.Files, absMain)
	require.Contains(t, res.Files, absDep)
	assert.Equal(t, "Main", res.Files[absMain].Messages[0].Name)
	assert.Equal(t, "Dep", res.Files[absDep].Messages[0].Name)
}

func Test_ParseFiles_ImportNotFoundIsAParseError(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.proto")
	require.NoError(t, os.WriteFile(mainPath, []byte(`syntax = "proto3";

import "missing.proto";

message Main {}
`), 0o644))

	_, err := ParseFiles([]string{mainPath}, nil)
	require.Error(t, err)
	var parseErr *protoerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "not found")
}

func Test_ParseFiles_UsesImportPathsBeforeImportingFilesDir(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib")
	appDir := filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.MkdirAll(appDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(libDir, "shared.proto"), []byte(`syntax = "proto3";

message Shared {}
`), 0o644))
	mainPath := filepath.Join(appDir, "main.proto")
	require.NoError(t, os.WriteFile(mainPath, []byte(`syntax = "proto3";

import "shared.proto";

message Main {}
`), 0o644))

	res, err := ParseFiles([]string{mainPath}, []string{libDir})
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
}
