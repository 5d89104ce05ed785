package domain

import "testing"

func TestPermissionSetAllows(t *testing.T) {
	cases := []struct {
		name string
		set  *PermissionSet
		attr string
		want bool
	}{
		{name: "nil set", set: nil, attr: "user.income", want: true},
		{name: "nil permissions map", set: &PermissionSet{}, attr: "user.income", want: true},
		{
			name: "missing entry",
			set:  &PermissionSet{Permissions: map[string]bool{"user.email": false}},
			attr: "user.income",
			want: true,
		},
		{
			name: "explicit deny",
			set:  &PermissionSet{Permissions: map[string]bool{"user.income": false}},
			attr: "user.income",
			want: false,
		},
		{
			name: "explicit grant",
			set:  &PermissionSet{Permissions: map[string]bool{"user.income": true}},
			attr: "user.income",
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.Allows(tc.attr); got != tc.want {
				t.Errorf("Allows(%q) = %v, want %v", tc.attr, got, tc.want)
			}
		})
	}
}
