package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialInjector(t *testing.T) {
	injector := NewCredentialInjector("analyst@example.com", "s3cret!")

	t.Run("trigger present", func(t *testing.T) {
		task := "Log in to vision.invesco.com and read the latest fund report"
		got := injector.Inject(task)

		assert.True(t, strings.HasPrefix(got, task), "block must be appended")
		assert.Contains(t, got, "If you need to log in to vision.invesco.com, use the following credentials:")
		assert.Contains(t, got, "Email: analyst@example.com")
		assert.Contains(t, got, "Password: s3cret!")
		assert.Contains(t, got, "Do not output the password in your final response.")
	})

	t.Run("second trigger", func(t *testing.T) {
		got := injector.Inject("Summarize Invesco's holdings")
		assert.Contains(t, got, "Password: s3cret!")
	})

	t.Run("no trigger", func(t *testing.T) {
		task := "Find today's weather on example.com"
		assert.Equal(t, task, injector.Inject(task))
		assert.False(t, injector.Applies(task))
	})

	t.Run("trigger is case sensitive", func(t *testing.T) {
		task := "look up invesco"
		assert.Equal(t, task, injector.Inject(task))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := injector.Inject("Open vision.invesco.com")
		twice := injector.Inject(once)
		assert.Equal(t, once, twice)
		assert.Equal(t, 1, strings.Count(twice, "Password:"))
	})
}

func TestCredentialInjector_NotConfigured(t *testing.T) {
	task := "Open vision.invesco.com"

	for name, injector := range map[string]*CredentialInjector{
		"no email":    NewCredentialInjector("", "pw"),
		"no password": NewCredentialInjector("a@b.c", ""),
		"nil":         nil,
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, injector.Configured())
			assert.Equal(t, task, injector.Inject(task))
		})
	}
}

func TestCredentialInjector_CustomTriggers(t *testing.T) {
	injector := NewCredentialInjector("a@b.c", "pw", "portal.example.com", " ")

	got := injector.Inject("check portal.example.com")
	assert.Contains(t, got, "If you need to log in to portal.example.com,")
	assert.Equal(t, "visit vision.invesco.com", injector.Inject("visit vision.invesco.com"))
}
