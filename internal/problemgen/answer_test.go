package problemgen

import "testing"

func TestNormalizeSQL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT a, b FROM t;", "select a,b from t"},
		{"  select   a ,b\nfrom   t  ", "select a,b from t"},
		{"SELECT *\tFROM Orders ;  ", "select * from orders"},
		{"select a from t;;", "select a from t;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSQL(tt.in); got != tt.want {
			t.Errorf("NormalizeSQL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckSolution(t *testing.T) {
	p := &Problem{ExpectedSolution: "SELECT Name, Salary FROM Employees WHERE Salary > 5000;"}

	tests := []struct {
		input string
		want  bool
	}{
		{"select name,salary from employees where salary > 5000", true},
		{"  SELECT name ,  salary\nFROM employees WHERE salary > 5000 ;", true},
		{"SELECT salary, name FROM employees WHERE salary > 5000", false},
		{"SELECT name, salary FROM employees WHERE salary >= 5000", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		if got := CheckSolution(tt.input, p); got != tt.want {
			t.Errorf("CheckSolution(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if CheckSolution("select 1", nil) {
		t.Error("nil problem must never match")
	}
}
