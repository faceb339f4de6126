package templates

import "fmt"

func rustCLI(name string) FileSet {
	return FileSet{
		"src/main.rs": `use std::env;

fn run(args: &[String]) -> i32 {
    if args.iter().any(|a| a == "--help") {
        println!("usage: [input]");
        return 0;
    }
    println!("ok");
    0
}

fn main() {
    let args: Vec<String> = env::args().skip(1).collect();
    std::process::exit(run(&args));
}

#[cfg(test)]
mod tests {
    use super::run;

    #[test]
    fn run_returns_zero() {
        assert_eq!(run(&[]), 0);
    }
}
`,
		"Cargo.toml": fmt.Sprintf(`[package]
name = %q
version = "0.1.0"
edition = "2021"

[dependencies]
`, name),
	}
}

func rustBasic(name string) FileSet {
	return FileSet{
		"src/main.rs": fmt.Sprintf(`fn greeting() -> String {
    String::from("Hello from %s")
}

fn main() {
    println!("{}", greeting());
}

#[cfg(test)]
mod tests {
    use super::greeting;

    #[test]
    fn greeting_starts_with_hello() {
        assert!(greeting().starts_with("Hello"));
    }
}
`, name),
		"Cargo.toml": fmt.Sprintf(`[package]
name = %q
version = "0.1.0"
edition = "2021"

[dependencies]
`, name),
	}
}

func javaBasic(name string) FileSet {
	return FileSet{
		"src/main/java/com/example/App.java": `package com.example;

public class App {
    static String greeting() {
        return "Hello from App";
    }

    public static void main(String[] args) {
        System.out.println(greeting());
    }
}
`,
		"src/test/java/com/example/AppTest.java": `package com.example;

import org.junit.Test;
import static org.junit.Assert.assertTrue;

public class AppTest {
    @Test
    public void greetingStartsWithHello() {
        assertTrue(App.greeting().startsWith("Hello"));
    }
}
`,
		"pom.xml": fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
    <modelVersion>4.0.0</modelVersion>
    <groupId>com.example</groupId>
    <artifactId>%s</artifactId>
    <version>1.0.0</version>
    <properties>
        <maven.compiler.source>17</maven.compiler.source>
        <maven.compiler.target>17</maven.compiler.target>
        <project.build.sourceEncoding>UTF-8</project.build.sourceEncoding>
    </properties>
    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.13.2</version>
            <scope>test</scope>
        </dependency>
    </dependencies>
</project>
`, name),
	}
}

func csharpBasic(name string) FileSet {
	return FileSet{
		"Program.cs": fmt.Sprintf(`using System;

namespace GeneratedApp
{
    class Program
    {
        static void Main(string[] args)
        {
            Console.WriteLine("Hello from %s");
        }
    }
}
`, name),
		"Project.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <Nullable>enable</Nullable>
    <ImplicitUsings>enable</ImplicitUsings>
  </PropertyGroup>
</Project>
`,
	}
}

func rubyBasic(name string) FileSet {
	return FileSet{
		"main.rb": fmt.Sprintf(`def greeting
  "Hello from %s"
end

puts greeting if __FILE__ == $PROGRAM_NAME
`, name),
		"Gemfile": `source "https://rubygems.org"

gem "minitest"
`,
	}
}

func phpBasic(name string) FileSet {
	return FileSet{
		"index.php": fmt.Sprintf(`<?php

function greeting(): string
{
    return "Hello from %s";
}

echo greeting(), PHP_EOL;
`, name),
		"composer.json": fmt.Sprintf(`{
    "name": "generated/%s",
    "require": {}
}
`, name),
	}
}
