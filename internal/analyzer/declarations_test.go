package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/augur-dev/augur/pkg/models"
	"github.com/augur-dev/augur/pkg/parser"
)

func extractFromSource(t *testing.T, filename, content string) []models.ClassDeclaration {
	t.Helper()

	file := filepath.Join(t.TempDir(), filename)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	psr := parser.New()
	defer psr.Close()

	decls, err := ExtractDeclarations(psr, file)
	if err != nil {
		t.Fatalf("ExtractDeclarations failed: %v", err)
	}
	return decls
}

func findDecl(t *testing.T, decls []models.ClassDeclaration, name string) models.ClassDeclaration {
	t.Helper()
	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("declaration %s not found in %v", name, decls)
	return models.ClassDeclaration{}
}

func countHidden(fields []models.FieldDecl) int {
	n := 0
	for _, f := range fields {
		if f.Visibility.Hidden() {
			n++
		}
	}
	return n
}

func countOverrides(methods []models.MethodDecl) int {
	n := 0
	for _, m := range methods {
		if m.IsOverride {
			n++
		}
	}
	return n
}

func TestExtractDeclarations_Java(t *testing.T) {
	decls := extractFromSource(t, "Dog.java", `
public class Dog extends Animal {
    private String name;
    protected int age;
    public boolean tagged;

    @Override
    public String speak() {
        return "woof";
    }

    public void fetch() {}

    private void groom() {}
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Java grammar unavailable)")
	}

	dog := findDecl(t, decls, "Dog")
	if dog.BaseClass != "Animal" {
		t.Errorf("BaseClass = %q, want %q", dog.BaseClass, "Animal")
	}
	if len(dog.Methods) != 3 {
		t.Errorf("Methods = %d, want 3", len(dog.Methods))
	}
	if countOverrides(dog.Methods) != 1 {
		t.Errorf("Overrides = %d, want 1 (@Override)", countOverrides(dog.Methods))
	}
	if len(dog.Fields) != 3 {
		t.Errorf("Fields = %d, want 3", len(dog.Fields))
	}
	if countHidden(dog.Fields) != 2 {
		t.Errorf("Hidden fields = %d, want 2 (private + protected)", countHidden(dog.Fields))
	}
}

func TestExtractDeclarations_JavaImplementsIsNotABase(t *testing.T) {
	decls := extractFromSource(t, "Cache.java", `
public class Cache implements Closeable {
    public void close() {}
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Java grammar unavailable)")
	}

	cache := findDecl(t, decls, "Cache")
	if cache.BaseClass != "" {
		t.Errorf("BaseClass = %q, want empty (implements is not extends)", cache.BaseClass)
	}
}

func TestExtractDeclarations_JavaMultiDeclaratorField(t *testing.T) {
	decls := extractFromSource(t, "Point.java", `
public class Point {
    private int x, y, z;
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Java grammar unavailable)")
	}

	point := findDecl(t, decls, "Point")
	if len(point.Fields) != 3 {
		t.Errorf("Fields = %d, want 3 from one declaration", len(point.Fields))
	}
}

func TestExtractDeclarations_Python(t *testing.T) {
	decls := extractFromSource(t, "shapes.py", `
class Shape:
    def __init__(self):
        self.area = 0
        self._cache = None

    def describe(self):
        return "shape"


class Circle(Shape):
    def __init__(self, r):
        self.radius = r
        self.__secret = 1

    def describe(self):
        return "circle"
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Python grammar unavailable)")
	}

	circle := findDecl(t, decls, "Circle")
	if circle.BaseClass != "Shape" {
		t.Errorf("BaseClass = %q, want %q", circle.BaseClass, "Shape")
	}
	if len(circle.Methods) != 2 {
		t.Errorf("Methods = %d, want 2", len(circle.Methods))
	}
	// Without @override, describe is not an override even though the base
	// defines the same name.
	if countOverrides(circle.Methods) != 0 {
		t.Errorf("Overrides = %d, want 0", countOverrides(circle.Methods))
	}
	if countHidden(circle.Fields) != 1 {
		t.Errorf("Hidden fields = %d, want 1 (__secret)", countHidden(circle.Fields))
	}

	shape := findDecl(t, decls, "Shape")
	if countHidden(shape.Fields) != 1 {
		t.Errorf("Shape hidden fields = %d, want 1 (_cache)", countHidden(shape.Fields))
	}
}

func TestExtractDeclarations_PythonOverrideDecorator(t *testing.T) {
	decls := extractFromSource(t, "impl.py", `
from typing import override

class Impl(Base):
    @override
    def run(self):
        pass
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Python grammar unavailable)")
	}

	impl := findDecl(t, decls, "Impl")
	if countOverrides(impl.Methods) != 1 {
		t.Errorf("Overrides = %d, want 1 (@override)", countOverrides(impl.Methods))
	}
}

func TestExtractDeclarations_TypeScript(t *testing.T) {
	decls := extractFromSource(t, "widgets.ts", `
class Control {
    protected id: string = "";

    render(): void {}
}

class Button extends Control {
    private label: string = "";
    #state: number = 0;

    override render(): void {}

    click(): void {}
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (TypeScript grammar unavailable)")
	}

	button := findDecl(t, decls, "Button")
	if button.BaseClass != "Control" {
		t.Errorf("BaseClass = %q, want %q", button.BaseClass, "Control")
	}
	if len(button.Methods) != 2 {
		t.Errorf("Methods = %d, want 2", len(button.Methods))
	}
	if countOverrides(button.Methods) != 1 {
		t.Errorf("Overrides = %d, want 1 (override keyword)", countOverrides(button.Methods))
	}
	if countHidden(button.Fields) != 2 {
		t.Errorf("Hidden fields = %d, want 2 (private + #state)", countHidden(button.Fields))
	}
}

func TestExtractDeclarations_CSharp(t *testing.T) {
	decls := extractFromSource(t, "Shapes.cs", `
public class Shape {
    public virtual double Area() { return 0; }
    int counter;
}

public class Circle : Shape, IDrawable {
    private double radius;

    public override double Area() { return 3.14 * radius * radius; }
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (C# grammar unavailable)")
	}

	circle := findDecl(t, decls, "Circle")
	if circle.BaseClass != "Shape" {
		t.Errorf("BaseClass = %q, want %q", circle.BaseClass, "Shape")
	}
	if countOverrides(circle.Methods) != 1 {
		t.Errorf("Overrides = %d, want 1", countOverrides(circle.Methods))
	}

	// Members without an access modifier default to private in C#.
	shape := findDecl(t, decls, "Shape")
	if countHidden(shape.Fields) != 1 {
		t.Errorf("Shape hidden fields = %d, want 1", countHidden(shape.Fields))
	}
}

func TestExtractDeclarations_Ruby(t *testing.T) {
	decls := extractFromSource(t, "animals.rb", `
class Animal
  def initialize
    @name = "x"
    @age = 0
  end

  def speak
    "..."
  end
end

class Dog < Animal
  def speak
    "woof"
  end
end
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Ruby grammar unavailable)")
	}

	dog := findDecl(t, decls, "Dog")
	if dog.BaseClass != "Animal" {
		t.Errorf("BaseClass = %q, want %q", dog.BaseClass, "Animal")
	}

	animal := findDecl(t, decls, "Animal")
	if len(animal.Methods) != 2 {
		t.Errorf("Methods = %d, want 2", len(animal.Methods))
	}
	if len(animal.Fields) != 2 {
		t.Errorf("Fields = %d, want 2 distinct ivars", len(animal.Fields))
	}
}

func TestExtractDeclarations_NestedClassesSeparate(t *testing.T) {
	decls := extractFromSource(t, "Outer.java", `
public class Outer {
    private int a;

    public void outerMethod() {}

    static class Inner {
        public void innerMethod() {}
    }
}
`)

	if len(decls) == 0 {
		t.Skip("No declarations extracted (Java grammar unavailable)")
	}

	outer := findDecl(t, decls, "Outer")
	inner := findDecl(t, decls, "Inner")
	if len(outer.Methods) != 1 {
		t.Errorf("Outer methods = %d, want 1 (inner methods excluded)", len(outer.Methods))
	}
	if len(inner.Methods) != 1 {
		t.Errorf("Inner methods = %d, want 1", len(inner.Methods))
	}
}
