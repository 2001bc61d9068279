package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			body, err := Render(name, data)
			require.NoError(t, err)
			for _, v := range data {
				assert.Contains(t, body, v)
			}
		})
	}
}

func TestRenderEscapesInput(t *testing.T) {
	body, err := Render(TemplateWelcome, map[string]string{"UserName": "<script>x</script>", "Username": "u"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}
