package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name      string
		src       RegistrySource
		wantErr   error
		wantNames []string
	}{
		{
			name:      "empty configuration",
			src:       RegistrySource{},
			wantNames: []string{},
		},
		{
			name: "top-level block only",
			src: RegistrySource{
				Default: DefaultBlock{BaseURL: "https://q.example.com", Credential: "tok"},
			},
			wantNames: []string{"default"},
		},
		{
			name: "named instances and top-level block",
			src: RegistrySource{
				Default: DefaultBlock{BaseURL: "https://q.example.com", Credential: "tok"},
				Instances: []Instance{
					{Name: "staging", BaseURL: "https://staging.example.com", Credential: "s"},
				},
			},
			wantNames: []string{"staging", "default"},
		},
		{
			name: "named default only",
			src: RegistrySource{
				Instances: []Instance{
					{Name: "default", BaseURL: "https://q.example.com", Credential: "tok"},
				},
			},
			wantNames: []string{"default"},
		},
		{
			name: "duplicate non-default names are kept",
			src: RegistrySource{
				Instances: []Instance{
					{Name: "eu", BaseURL: "https://eu1.example.com", Credential: "a"},
					{Name: "eu", BaseURL: "https://eu2.example.com", Credential: "b"},
				},
			},
			wantNames: []string{"eu", "eu"},
		},
		{
			name: "named default conflicts with top-level baseUrl",
			src: RegistrySource{
				Default: DefaultBlock{BaseURL: "https://q.example.com"},
				Instances: []Instance{
					{Name: "default", BaseURL: "https://other.example.com", Credential: "tok"},
				},
			},
			wantErr: ErrConfigConflict,
		},
		{
			name: "named default conflicts with top-level externalBaseUrl",
			src: RegistrySource{
				Default: DefaultBlock{ExternalBaseURL: "https://ui.example.com"},
				Instances: []Instance{
					{Name: "default", BaseURL: "https://other.example.com", Credential: "tok"},
				},
			},
			wantErr: ErrConfigConflict,
		},
		{
			name: "conflict is reported before incompleteness",
			src: RegistrySource{
				Default: DefaultBlock{Credential: "tok"},
				Instances: []Instance{
					{Name: "default", BaseURL: "https://other.example.com", Credential: "tok"},
				},
			},
			wantErr: ErrConfigConflict,
		},
		{
			name: "baseUrl without credential",
			src: RegistrySource{
				Default: DefaultBlock{BaseURL: "https://q.example.com"},
			},
			wantErr: ErrConfigIncomplete,
		},
		{
			name: "credential without baseUrl",
			src: RegistrySource{
				Default: DefaultBlock{Credential: "tok"},
			},
			wantErr: ErrConfigIncomplete,
		},
		{
			name: "externalBaseUrl alone",
			src: RegistrySource{
				Default: DefaultBlock{ExternalBaseURL: "https://ui.example.com"},
			},
			wantErr: ErrConfigIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.src)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, reg.Len())
			for _, inst := range reg.Instances() {
				names = append(names, inst.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestRegistryResolveTopLevelDefault(t *testing.T) {
	reg, err := NewRegistry(RegistrySource{
		Default: DefaultBlock{
			BaseURL:         "https://q.example.com",
			ExternalBaseURL: "https://ui.example.com",
			Credential:      "tok",
		},
	})
	require.NoError(t, err)

	want := Instance{
		Name:            "default",
		BaseURL:         "https://q.example.com",
		ExternalBaseURL: "https://ui.example.com",
		Credential:      "tok",
	}

	for _, name := range []string{"", "default"} {
		got, err := reg.Resolve(name)
		require.NoError(t, err, "Resolve(%q)", name)
		assert.Equal(t, want, got, "Resolve(%q)", name)
	}
	assert.True(t, reg.HasDefault())
}

func TestRegistryResolveNamed(t *testing.T) {
	reg, err := NewRegistry(RegistrySource{
		Instances: []Instance{
			{Name: "eu", BaseURL: "https://eu1.example.com", Credential: "a"},
			{Name: "us", BaseURL: "https://us.example.com", Credential: "b"},
			{Name: "eu", BaseURL: "https://eu2.example.com", Credential: "c"},
		},
	})
	require.NoError(t, err)

	got, err := reg.Resolve("us")
	require.NoError(t, err)
	assert.Equal(t, "https://us.example.com", got.BaseURL)

	got, err = reg.Resolve("eu")
	require.NoError(t, err)
	assert.Equal(t, "https://eu1.example.com", got.BaseURL, "first match should win")
}

func TestRegistryResolveNotFound(t *testing.T) {
	reg, err := NewRegistry(RegistrySource{
		Instances: []Instance{
			{Name: "eu", BaseURL: "https://eu.example.com", Credential: "a"},
		},
	})
	require.NoError(t, err)
	assert.False(t, reg.HasDefault())

	_, errUnknown := reg.Resolve("missing")
	require.ErrorIs(t, errUnknown, ErrInstanceNotFound)
	assert.Contains(t, errUnknown.Error(), `"missing"`)

	_, errOmitted := reg.Resolve("")
	require.ErrorIs(t, errOmitted, ErrInstanceNotFound)

	_, errExplicit := reg.Resolve("default")
	require.ErrorIs(t, errExplicit, ErrInstanceNotFound)

	assert.NotEqual(t, errOmitted.Error(), errExplicit.Error(),
		"omitted and explicit default lookups should report different messages")
}

func TestRegistryInstancesReturnsCopy(t *testing.T) {
	reg, err := NewRegistry(RegistrySource{
		Instances: []Instance{{Name: "eu", BaseURL: "https://eu.example.com", Credential: "a"}},
	})
	require.NoError(t, err)

	list := reg.Instances()
	list[0].BaseURL = "https://tampered.example.com"

	got, err := reg.Resolve("eu")
	require.NoError(t, err)
	assert.Equal(t, "https://eu.example.com", got.BaseURL)
}

func TestInstanceStringHidesCredential(t *testing.T) {
	inst := Instance{Name: "eu", BaseURL: "https://eu.example.com", Credential: "secret-token"}
	assert.NotContains(t, inst.String(), "secret-token")
	assert.False(t, inst.IsDefault())
}
