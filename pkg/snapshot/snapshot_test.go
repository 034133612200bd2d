package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domxform/pkg/css"
	"domxform/pkg/geom"
	"domxform/pkg/html"
	"domxform/pkg/layout"
	"domxform/pkg/transform"
)

const sample = `{
  "url": "file:///stage.html",
  "selector": "#card",
  "viewport": {"width": 800, "height": 600, "scrollX": 0, "scrollY": 0},
  "elements": [
    {"tag": "div", "id": "card", "offsetWidth": 100, "offsetHeight": 50,
     "offsetLeft": 20, "offsetTop": 30, "scrollLeft": 0, "scrollTop": 0,
     "parent": 1, "offsetParent": 1,
     "style": {"transform": "matrix(1, 0, 0, 1, 5, 0)", "transformOrigin": "50px 25px",
               "perspective": "none", "perspectiveOrigin": "50px 25px"}},
    {"tag": "div", "id": "stage", "offsetWidth": 400, "offsetHeight": 300,
     "offsetLeft": 8, "offsetTop": 8, "scrollLeft": 0, "scrollTop": 0,
     "parent": 2, "offsetParent": 2,
     "style": {"transform": "none", "transformOrigin": "200px 150px",
               "perspective": "", "perspectiveOrigin": "200px 150px"}},
    {"tag": "body", "offsetWidth": 784, "offsetHeight": 300,
     "offsetLeft": 0, "offsetTop": 0, "scrollLeft": 0, "scrollTop": 0,
     "parent": -1, "offsetParent": -1,
     "style": {"transform": "none", "transformOrigin": "392px 150px",
               "perspective": "none", "perspectiveOrigin": "392px 150px"}}
  ],
  "leaves": [0]
}`

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(sample))
	require.NoError(t, err)
	require.Len(t, s.Elements, 3)
	assert.Equal(t, "#card", s.Selector)
	assert.Equal(t, 800.0, s.Viewport.Width)

	card := s.Leaf(0)
	assert.Equal(t, 100.0, card.OffsetWidth())
	assert.Equal(t, 20.0, card.OffsetLeft())
	assert.Equal(t, Node{snap: s, index: 1}, card.ParentNode())
	assert.Equal(t, card.OffsetParent(), card.ParentNode())

	body := Node{snap: s, index: 2}
	assert.Nil(t, body.ParentNode())
	assert.Nil(t, body.OffsetParent())

	assert.Equal(t, transform.PerspectiveNone, Node{snap: s, index: 1}.ComputedStyle().Perspective)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"parent out of range", `{"elements":[{"parent":3,"offsetParent":-1}]}`},
		{"offset parent below -1", `{"elements":[{"parent":-1,"offsetParent":-2}]}`},
		{"cycle", `{"elements":[{"parent":1,"offsetParent":-1},{"parent":0,"offsetParent":-1}]}`},
		{"leaf out of range", `{"elements":[{"parent":-1,"offsetParent":-1}],"leaves":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}

	_, err := Decode([]byte(`{"elements": [`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := Decode([]byte(sample))
	require.NoError(t, err)
	data, err := s.Encode()
	require.NoError(t, err)
	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestResolveSnapshot(t *testing.T) {
	s, err := Decode([]byte(sample))
	require.NoError(t, err)

	res := transform.New(css.Values{}, transform.WithStyles(s)).Resolve(s.Leaf(0))

	// Anchor (-50, 25) plus offsets (28, 38), then the card's translation.
	want := geom.Translate(-50+28+5, -(25 + 38), 0)
	if diff := cmp.Diff(want, res.Matrix, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, res.HasPerspective())
}

func TestFromTree_MatchesLayout(t *testing.T) {
	doc, err := html.Parse(`<div id="stage" style="position:relative;width:300px;height:200px;perspective:500px;transform:rotate(10deg)">` +
		`<div class="card" style="position:absolute;left:20px;top:30px;width:50px;height:40px;transform:translateZ(20px) rotateY(30deg)"></div>` +
		`<div class="card" style="margin-top:90px;height:10px;transform:scale(2)"></div>` +
		`</div>`)
	require.NoError(t, err)
	tree := layout.NewLayoutEngine(800, 600).Layout(doc)

	s, err := FromTree(tree, ".card", Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	require.Len(t, s.Leaves, 2)

	boxes, ok := tree.Select(".card")
	require.True(t, ok)

	fromLayout := transform.New(css.Values{}, transform.WithStyles(tree))
	fromSnap := transform.New(css.Values{}, transform.WithStyles(s))
	for i, b := range boxes {
		want := fromLayout.Resolve(b)
		got := fromSnap.Resolve(s.Leaf(i))
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("leaf %d mismatch (-layout +snapshot):\n%s", i, diff)
		}
	}

	data, err := s.Encode()
	require.NoError(t, err)
	_, err = Decode(data)
	require.NoError(t, err)
}

func TestFromTree_BadSelector(t *testing.T) {
	doc, err := html.Parse(`<div></div>`)
	require.NoError(t, err)
	tree := layout.NewLayoutEngine(800, 600).Layout(doc)
	_, err = FromTree(tree, "div::before", Viewport{})
	assert.Error(t, err)
}

// TestCapture drives a real browser; set DOMXFORM_CHROME_TESTS=1 to run it.
func TestCapture(t *testing.T) {
	if os.Getenv("DOMXFORM_CHROME_TESTS") == "" {
		t.Skip("DOMXFORM_CHROME_TESTS not set")
	}
	page := `data:text/html,<div id="s" style="position:relative;width:200px;height:100px;transform:rotate(45deg)"><div id="c" style="width:20px;height:20px"></div></div>`

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s, err := Capture(ctx, page, "#c", Options{Headless: true, Timeout: 30 * time.Second})
	require.NoError(t, err)
	require.Len(t, s.Leaves, 1)
	assert.Equal(t, "c", s.Leaf(0).Element().ID)

	res := transform.New(css.Values{}, transform.WithStyles(s)).Resolve(s.Leaf(0))
	assert.NotEqual(t, geom.Identity(), res.Matrix)
}
