package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	rec := NewRecord("app.js", "javascript")
	rec.Functions = append(rec.Functions, FunctionEntry{Kind: FunctionDeclaration, Name: "main", Parameters: []string{}})
	rec.Classes = append(rec.Classes, ClassEntry{Kind: ClassDeclaration, Name: "App"})
	rec.Variables = append(rec.Variables, VariableEntry{DeclarationForm: "const", Name: "x", Value: StringPtr("1")})
	imp := ImportEntry{Source: "fs", Kind: "import"}
	rec.Imports = append(rec.Imports, imp)
	rec.Dependencies.Imports = append(rec.Dependencies.Imports, imp)
	rec.Dependencies.CallReferences = append(rec.Dependencies.CallReferences, CallReference{Name: "main"})
	return rec
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewAll, v)

	v, err = ParseView(" Classes ")
	require.NoError(t, err)
	assert.Equal(t, ViewClasses, v)

	_, err = ParseView("everything")
	assert.Error(t, err)
}

func TestFilter_KeepsSelectedListingOnly(t *testing.T) {
	rec := sampleRecord()

	fns := rec.Filter(ViewFunctions)
	assert.Len(t, fns.Functions, 1)
	assert.NotNil(t, fns.Classes)
	assert.Empty(t, fns.Classes)
	assert.NotNil(t, fns.Variables)
	assert.Empty(t, fns.Variables)
	assert.NotNil(t, fns.Imports)
	assert.Empty(t, fns.Imports)
	assert.NotNil(t, fns.Dependencies.CallReferences)
	assert.Empty(t, fns.Dependencies.CallReferences)

	deps := rec.Filter(ViewDependencies)
	assert.NotNil(t, deps.Functions)
	assert.Empty(t, deps.Functions)
	assert.Len(t, deps.Imports, 1)
	assert.Len(t, deps.Dependencies.CallReferences, 1)
}

func TestFilter_DoesNotTouchReceiver(t *testing.T) {
	rec := sampleRecord()
	_ = rec.Filter(ViewClasses)

	assert.Len(t, rec.Functions, 1)
	assert.Len(t, rec.Variables, 1)
	assert.Len(t, rec.Dependencies.CallReferences, 1)

	all := rec.Filter(ViewAll)
	assert.Equal(t, rec, all)
	assert.NotSame(t, rec, all)
}

func TestFilter_FilteredListingsSerializeAsArrays(t *testing.T) {
	for _, v := range []View{ViewFunctions, ViewClasses, ViewVariables, ViewDependencies} {
		data, err := json.Marshal(sampleRecord().Filter(v))
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		for _, key := range []string{"functions", "classes", "variables", "imports", "exports"} {
			assert.IsType(t, []any{}, decoded[key], "view %s, listing %s", v, key)
		}
		deps, ok := decoded["dependencies"].(map[string]any)
		require.True(t, ok)
		for _, key := range []string{"imports", "moduleReferences", "callReferences", "propertyReferences"} {
			assert.IsType(t, []any{}, deps[key], "view %s, dependencies.%s", v, key)
		}
	}

	data, err := json.Marshal(sampleRecord().Filter(ViewClasses))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"functions":[]`)
	assert.Contains(t, string(data), `"callReferences":[]`)
}

func TestNewRecord_EmptyListingsSerializeAsArrays(t *testing.T) {
	data, err := json.Marshal(NewRecord("x.py", "python"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"functions":[]`)
	assert.Contains(t, string(data), `"propertyReferences":[]`)
	assert.NotContains(t, string(data), `"note"`)
}

func TestWithFile(t *testing.T) {
	rec := sampleRecord()
	renamed := rec.WithFile("other.js")
	assert.Equal(t, "other.js", renamed.File)
	assert.Equal(t, "app.js", rec.File)
	assert.Equal(t, rec.Functions, renamed.Functions)
}
