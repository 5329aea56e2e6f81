package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetCIDR(t *testing.T) {
	t.Parallel()
	tests := []struct {
		vpcCIDR string
		octet   int
		want    string
		wantErr bool
	}{
		{"10.0.0.0/16", 0, "10.0.0.0/24", false},
		{"10.0.0.0/16", 1, "10.0.1.0/24", false},
		{"10.0.0.0/16", 10, "10.0.10.0/24", false},
		{"172.31.0.0/16", 11, "172.31.11.0/24", false},
		{"10.0.0.0/8", 0, "", true},
		{"10.0.0.0/24", 0, "", true},
		{"not-a-cidr", 0, "", true},
	}
	for _, tt := range tests {
		got, err := subnetCIDR(tt.vpcCIDR, tt.octet)
		if tt.wantErr {
			require.Error(t, err, tt.vpcCIDR)
			continue
		}
		require.NoError(t, err, tt.vpcCIDR)
		assert.Equal(t, tt.want, got)
	}
}

func TestMajorVersion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "15", majorVersion("15.4"))
	assert.Equal(t, "15", majorVersion("15"))
	assert.Equal(t, "16", majorVersion("16.0.2"))
	assert.Equal(t, "", majorVersion(""))
}
