package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><body>
<div id="stage" style="position:relative;width:400px;height:300px;perspective:500px">
  <div id="card" style="width:100px;height:50px;transform:rotateY(20deg)"></div>
</div>
<div id="flat" style="width:100px;height:50px"></div>
<script>document.getElementById("flat").style.width = "60px";</script>
</body></html>`

func writeTestPage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(testPage), 0o644))
	return path
}

// execute runs the CLI with args in an isolated config environment.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeRecords(t *testing.T, data string) []record {
	t.Helper()
	var records []record
	require.NoError(t, json.Unmarshal([]byte(data), &records))
	return records
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestResolve(t *testing.T) {
	page := writeTestPage(t)
	out, err := execute(t, "resolve", page, "--selector", "#flat")
	require.NoError(t, err)

	records := decodeRecords(t, out)
	require.Len(t, records, 1)
	flat := records[0]
	assert.Equal(t, "div", flat.Tag)
	assert.Equal(t, "flat", flat.ID)
	// Anchored at (8 - 50, -(308 + 25)) below the 300px stage.
	assert.Equal(t, -42.0, flat.Matrix[12])
	assert.Equal(t, -333.0, flat.Matrix[13])
	require.NotNil(t, flat.Affine)
	assert.Equal(t, [6]float64{1, 0, 0, 1, -42, -333}, *flat.Affine)
	assert.Nil(t, flat.Perspective)

	out, err = execute(t, "resolve", page, "-s", "#card", "--pretty")
	require.NoError(t, err)
	card := decodeRecords(t, out)[0]
	require.NotNil(t, card.Perspective)
	assert.Equal(t, 500.0, *card.Perspective)
	assert.Equal(t, &vec3{X: 200, Y: 150}, card.PerspectiveOrigin)
	assert.Nil(t, card.Affine, "rotateY is not planar")
}

func TestResolve_WithScripts(t *testing.T) {
	out, err := execute(t, "resolve", writeTestPage(t), "-s", "#flat", "--scripts")
	require.NoError(t, err)
	assert.Equal(t, -22.0, decodeRecords(t, out)[0].Matrix[12])
}

func TestResolve_Errors(t *testing.T) {
	_, err := execute(t, "resolve", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = execute(t, "resolve", writeTestPage(t), "-s", "div::after")
	assert.ErrorContains(t, err, "invalid selector")

	_, err = execute(t, "resolve")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	page := writeTestPage(t)
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "out.svg")
	_, err := execute(t, "render", page, "-s", "#stage, #flat", "-o", svgPath, "--width", "640", "--height", "480")
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(svgPath))
	assert.Equal(t, "0 0 640 480", doc.SelectElement("svg").SelectAttrValue("viewBox", ""))
	assert.Len(t, doc.FindElements("//polygon"), 2)

	pngPath := filepath.Join(dir, "out.png")
	_, err = execute(t, "render", page, "-o", pngPath)
	require.NoError(t, err)
	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestScript(t *testing.T) {
	out, err := execute(t, "script", writeTestPage(t), "--eval",
		`[document.getElementById("flat").offsetWidth, getTransformForElement(document.getElementById("card")).perspective]`)
	require.NoError(t, err)

	var got []float64
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []float64{60, 500}, got)
}

func TestCapture_FromFile(t *testing.T) {
	snap := `{"url":"about:blank","selector":"#c","viewport":{"width":800,"height":600},
	"elements":[
	 {"tag":"div","id":"c","offsetWidth":20,"offsetHeight":10,"offsetLeft":30,"offsetTop":40,
	  "parent":-1,"offsetParent":-1,
	  "style":{"transform":"none","transformOrigin":"10px 5px","perspective":"none","perspectiveOrigin":"10px 5px"}}],
	"leaves":[0]}`
	dir := t.TempDir()
	from := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(from, []byte(snap), 0o644))
	saved := filepath.Join(dir, "copy.json")

	out, err := execute(t, "capture", "--from", from, "--save", saved)
	require.NoError(t, err)
	records := decodeRecords(t, out)
	require.Len(t, records, 1)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, 20.0, records[0].Matrix[12])
	assert.Equal(t, -45.0, records[0].Matrix[13])
	assert.FileExists(t, saved)

	_, err = execute(t, "capture")
	assert.ErrorContains(t, err, "--from")
}
