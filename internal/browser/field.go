package browser

import (
	"fmt"

	"github.com/go-rod/rod"
)

// setValueJS clears the field, announces the empty state, writes the new
// value, then fires input and change so masking/validation handlers bound by
// the firmware react exactly as they would to user typing. Select controls
// only get change, matching what a real selection emits.
const setValueJS = `(v) => {
	const el = this;
	if (el.tagName.toLowerCase() === 'select') {
		el.value = v;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return el.value;
	}
	el.focus();
	el.value = '';
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.value = v;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return el.value;
}`

// SetValue writes v into a form control, input or select alike.
func SetValue(el *rod.Element, v string) error {
	res, err := el.Eval(setValueJS, v)
	if err != nil {
		return fmt.Errorf("set value %q: %w", v, err)
	}
	if got := res.Value.Str(); got != v {
		return fmt.Errorf("value rejected by control: wrote %q, field holds %q", v, got)
	}
	return nil
}

// Value reads the control's current value.
func Value(el *rod.Element) (string, error) {
	res, err := el.Eval(`() => this.value === undefined ? (this.textContent || "") : String(this.value)`)
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	return res.Value.Str(), nil
}
