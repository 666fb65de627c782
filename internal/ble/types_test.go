package ble

import "testing"

func TestVendorFromNamePrefixes(t *testing.T) {
	cases := map[string]Vendor{
		"GAN356 i3":     VendorGAN,
		"MG Cube":       VendorGAN,
		"GoCube-ABCD":   VendorGoCube,
		"Rubiks Connect": VendorGoCube,
		"GiC":           VendorGiiker,
		"Mi Smart Cube": VendorGiiker,
		"Whatever Else": VendorUnknown,
	}
	for name, want := range cases {
		if got := vendorFromName(name); got != want {
			t.Errorf("vendorFromName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestVendorStringNames(t *testing.T) {
	cases := map[Vendor]string{
		VendorGAN:     "GAN",
		VendorGoCube:  "GoCube",
		VendorGiiker:  "Giiker",
		VendorMoYu:    "MoYu",
		VendorUnknown: "Unknown",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("Vendor(%d).String() = %q, want %q", v, got, want)
		}
	}
}
