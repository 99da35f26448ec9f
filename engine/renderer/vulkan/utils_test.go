package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestVulkanResultString(t *testing.T) {
	tests := []struct {
		name   string
		result vk.Result
		want   string
	}{
		{"success", vk.Success, "VK_SUCCESS"},
		{"out of date", vk.ErrorOutOfDate, "VK_ERROR_OUT_OF_DATE_KHR"},
		{"device lost", vk.ErrorDeviceLost, "VK_ERROR_DEVICE_LOST"},
		{"unmapped code", vk.Result(-999), "VK_RESULT(-999)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VulkanResultString(tt.result); got != tt.want {
				t.Errorf("VulkanResultString(%d) = %q, want %q", tt.result, got, tt.want)
			}
		})
	}
}

func TestVulkanResultIsSuccess(t *testing.T) {
	tests := []struct {
		name   string
		result vk.Result
		want   bool
	}{
		{"success", vk.Success, true},
		{"suboptimal is a status", vk.Suboptimal, true},
		{"timeout is a status", vk.Timeout, true},
		{"out of date is an error", vk.ErrorOutOfDate, false},
		{"device lost is an error", vk.ErrorDeviceLost, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VulkanResultIsSuccess(tt.result); got != tt.want {
				t.Errorf("VulkanResultIsSuccess(%s) = %v, want %v", VulkanResultString(tt.result), got, tt.want)
			}
		})
	}
}

func TestVulkanSafeString(t *testing.T) {
	if got := VulkanSafeString("abc"); got != "abc\x00" {
		t.Errorf("VulkanSafeString(abc) = %q", got)
	}
	if got := VulkanSafeString("abc\x00"); got != "abc\x00" {
		t.Errorf("VulkanSafeString on terminated input = %q", got)
	}
	if got := VulkanSafeString(""); got != "\x00" {
		t.Errorf("VulkanSafeString(empty) = %q", got)
	}

	in := []string{"a", "b\x00", ""}
	out := VulkanSafeStrings(in)
	if len(out) != 3 || out[0] != "a\x00" || out[1] != "b\x00" || out[2] != "\x00" {
		t.Errorf("VulkanSafeStrings(%q) = %q", in, out)
	}
}
