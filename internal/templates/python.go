package templates

import "fmt"

func pythonFastAPI(name string) FileSet {
	return FileSet{
		"main.py": fmt.Sprintf(`"""%s - FastAPI application."""
from fastapi import FastAPI, HTTPException
from pydantic import BaseModel

app = FastAPI(title=%q)

items: dict[int, "Item"] = {}


class Item(BaseModel):
    id: int
    name: str
    price: float = 0.0


@app.get("/")
def root():
    return {"service": %q, "status": "running"}


@app.get("/health")
def health():
    return {"status": "healthy"}


@app.get("/items")
def list_items():
    return list(items.values())


@app.post("/items", status_code=201)
def create_item(item: Item):
    items[item.id] = item
    return item


@app.get("/items/{item_id}")
def get_item(item_id: int):
    if item_id not in items:
        raise HTTPException(status_code=404, detail="item not found")
    return items[item_id]
`, name, name, name),
		"tests/test_main.py": `from fastapi.testclient import TestClient

from main import app

client = TestClient(app)


def test_health():
    resp = client.get("/health")
    assert resp.status_code == 200
    assert resp.json()["status"] == "healthy"


def test_create_and_get_item():
    resp = client.post("/items", json={"id": 1, "name": "widget", "price": 9.5})
    assert resp.status_code == 201
    resp = client.get("/items/1")
    assert resp.status_code == 200
    assert resp.json()["name"] == "widget"


def test_missing_item_is_404():
    assert client.get("/items/9999").status_code == 404
`,
		"requirements.txt": `fastapi>=0.100.0
uvicorn[standard]>=0.23.0
pydantic>=2.0.0
pytest>=7.4.0
httpx>=0.24.0
`,
	}
}

func pythonFlask(name string) FileSet {
	return FileSet{
		"app.py": fmt.Sprintf(`"""%s - Flask application."""
from flask import Flask, jsonify

app = Flask(__name__)


@app.route("/")
def index():
    return jsonify(service=%q, status="running")


@app.route("/health")
def health():
    return jsonify(status="healthy")


if __name__ == "__main__":
    app.run(debug=True)
`, name, name),
		"tests/test_app.py": `from app import app


def test_health():
    client = app.test_client()
    resp = client.get("/health")
    assert resp.status_code == 200
    assert resp.get_json()["status"] == "healthy"
`,
		"requirements.txt": `flask>=2.3.0
pytest>=7.4.0
`,
	}
}

func pythonCLI(name string) FileSet {
	return FileSet{
		"main.py": fmt.Sprintf(`"""%s - command line tool."""
import argparse


def build_parser() -> argparse.ArgumentParser:
    parser = argparse.ArgumentParser(prog=%q)
    parser.add_argument("input", nargs="?", default="-", help="input file or - for stdin")
    parser.add_argument("--verbose", action="store_true")
    return parser


def main(argv=None) -> int:
    args = build_parser().parse_args(argv)
    if args.verbose:
        print(f"processing {args.input}")
    return 0


if __name__ == "__main__":
    raise SystemExit(main())
`, name, name),
		"tests/test_main.py": `from main import build_parser, main


def test_parser_defaults():
    args = build_parser().parse_args([])
    assert args.input == "-"


def test_main_returns_zero():
    assert main([]) == 0
`,
		"requirements.txt": `pytest>=7.4.0
`,
	}
}

func pythonBasic(name string) FileSet {
	return FileSet{
		"main.py": fmt.Sprintf(`"""%s - generated application."""


def main():
    print("Hello from %s")


if __name__ == "__main__":
    main()
`, name, name),
		"tests/test_main.py": `import main


def test_main_runs():
    main.main()
`,
		"requirements.txt": `pytest>=7.4.0
`,
	}
}
