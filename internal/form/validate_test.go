package form

import (
	"reflect"
	"testing"
)

func validValues() Values {
	return Values{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Phone:  "312-555-0100",
		Date:   "2025-06-14",
		Time:   "19:00",
		Guests: "2",
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	if errs := Validate(validValues()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_SingleFieldFailures(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Values)
		field Field
		msg   string
	}{
		{"empty name", func(v *Values) { v.Name = "" }, FieldName, MsgNameRequired},
		{"blank name", func(v *Values) { v.Name = "   " }, FieldName, MsgNameRequired},
		{"empty email", func(v *Values) { v.Email = "" }, FieldEmail, MsgEmailRequired},
		{"malformed email", func(v *Values) { v.Email = "a@b" }, FieldEmail, MsgEmailInvalid},
		{"empty phone", func(v *Values) { v.Phone = " " }, FieldPhone, MsgPhoneRequired},
		{"short phone", func(v *Values) { v.Phone = "555-123" }, FieldPhone, MsgPhoneInvalid},
		{"long phone", func(v *Values) { v.Phone = "1 (312) 555-0100" }, FieldPhone, MsgPhoneInvalid},
		{"empty date", func(v *Values) { v.Date = "" }, FieldDate, MsgDateRequired},
		{"empty time", func(v *Values) { v.Time = "" }, FieldTime, MsgTimeRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validValues()
			tc.edit(&v)
			got := Validate(v)
			want := Errors{tc.field: tc.msg}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestValidate_OptionalFieldsNeverFail(t *testing.T) {
	v := validValues()
	v.Guests = "banana"
	v.Occasion = "wedding"
	v.SpecialRequests = ""
	if errs := Validate(v); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_EmptyForm(t *testing.T) {
	errs := Validate(Values{})
	if len(errs) != 5 {
		t.Fatalf("expected 5 errors, got %v", errs)
	}
}

func TestPhoneDigits(t *testing.T) {
	got := PhoneDigits("(123) 456-7890")
	if got != "1234567890" {
		t.Fatalf("expected 1234567890, got %q", got)
	}
	v := validValues()
	v.Phone = "(123) 456-7890"
	if errs := Validate(v); len(errs) != 0 {
		t.Fatalf("expected formatted phone to pass, got %v", errs)
	}
}
