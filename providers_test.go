package intake

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplePromptProvider_GetPrompt(t *testing.T) {
	provider := SimplePromptProvider{
		"basic_info": "Basic prompt",
	}

	t.Run("existing prompt", func(t *testing.T) {
		prompt, err := provider.GetPrompt("basic_info", 1)
		require.NoError(t, err)
		assert.Equal(t, "Basic prompt", prompt)
	})

	t.Run("non-existing prompt", func(t *testing.T) {
		prompt, err := provider.GetPrompt("nonexistent", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Empty(t, prompt)
	})
}

func TestStickPromptProvider_GetPrompt(t *testing.T) {
	provider, err := NewStickPromptProvider(
		WithTemplates(map[string]string{
			"basic":  "Basic template for {{ tag }} version {{ version }}",
			"custom": "Genders: {{ genders }}",
		}),
		WithVar("genders", `"male", "female"`),
	)
	require.NoError(t, err)

	t.Run("built-in variables", func(t *testing.T) {
		prompt, err := provider.GetPrompt("basic", 2)
		require.NoError(t, err)
		assert.Equal(t, "Basic template for basic version 2", prompt)
	})

	t.Run("custom variable", func(t *testing.T) {
		prompt, err := provider.GetPrompt("custom", 1)
		require.NoError(t, err)
		assert.Equal(t, `Genders: "male", "female"`, prompt)
	})

	t.Run("non-existent template", func(t *testing.T) {
		_, err := provider.GetPrompt("nonexistent", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestStickPromptProvider_AddTemplate(t *testing.T) {
	provider, err := NewStickPromptProvider()
	require.NoError(t, err)

	provider.AddTemplate("new", "New template")

	prompt, err := provider.GetPrompt("new", 1)
	require.NoError(t, err)
	assert.Equal(t, "New template", prompt)
}

func TestWithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/basic_info.twig": {Data: []byte("from fs {{ tag }}")},
		"tpl/notes.txt":       {Data: []byte("ignored")},
	}

	provider, err := NewStickPromptProvider(WithFS(fsys, "tpl"))
	require.NoError(t, err)

	prompt, err := provider.GetPrompt("basic_info", 1)
	require.NoError(t, err)
	assert.Equal(t, "from fs basic_info", prompt)

	_, err = provider.GetPrompt("notes", 1)
	assert.Error(t, err)
}

func TestDefaultPrompts(t *testing.T) {
	provider, err := DefaultPrompts()
	require.NoError(t, err)

	for _, tag := range []string{"basic_info", "contact_info", "relationships", "guideline"} {
		t.Run(tag, func(t *testing.T) {
			prompt, err := provider.GetPrompt(tag, 1)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
			assert.NotContains(t, prompt, "{{")
			assert.Contains(t, prompt, "JSON")
		})
	}

	basic, err := provider.GetPrompt("basic_info", 1)
	require.NoError(t, err)
	assert.Contains(t, basic, `"male", "female", "other", "unknown"`)
	assert.Contains(t, basic, `"widowed"`)

	contact, err := provider.GetPrompt("contact_info", 1)
	require.NoError(t, err)
	assert.Contains(t, contact, `"mobile"`)

	guideline, err := provider.GetPrompt("guideline", 1)
	require.NoError(t, err)
	assert.Contains(t, guideline, `"vietnamese"`)
}

func TestDefaultPrompts_Override(t *testing.T) {
	provider, err := DefaultPrompts(WithTemplates(map[string]string{"basic_info": "custom"}))
	require.NoError(t, err)

	prompt, err := provider.GetPrompt("basic_info", 1)
	require.NoError(t, err)
	assert.Equal(t, "custom", prompt)
}
