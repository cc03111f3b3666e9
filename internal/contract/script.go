package contract

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// runScript is a standalone Python runner with the contract embedded, handed
// to the modeling team alongside the contract file.
const runScript = `import json
from pathlib import Path

CONTRACT = r"""
{{.ContractJSON}}"""


def load_contract() -> dict:
    return json.loads(CONTRACT)


def run_model(contract: dict) -> dict:
    header = contract.get("header", {})
    user_specs = contract.get("user_specs", {})
    return {
        "status": "success",
        "echo": {
            "header": header,
            "user_specs": user_specs,
        },
    }


if __name__ == "__main__":
    contract = load_contract()
    results = run_model(contract)
    out_dir = Path({{.OutputDir}})
    out_dir.mkdir(parents=True, exist_ok=True)
    out_file = out_dir / "model_results.json"
    out_file.write_text(json.dumps(results, indent=2), encoding="utf-8")
    print(f"Wrote results to: {out_file}")
`

var runScriptTmpl = template.Must(template.New("runscript").Parse(runScript))

// GenerateRunScript renders a self-contained modeling script embedding the
// contract. outputDir is where the generated script writes its results.
func GenerateRunScript(c FinalContract, outputDir string) (string, error) {
	contractJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode contract: %w", err)
	}
	outDirLiteral, err := json.Marshal(outputDir)
	if err != nil {
		return "", fmt.Errorf("encode output dir: %w", err)
	}
	var b strings.Builder
	err = runScriptTmpl.Execute(&b, struct {
		ContractJSON string
		OutputDir    string
	}{
		ContractJSON: string(contractJSON) + "\n",
		OutputDir:    string(outDirLiteral),
	})
	if err != nil {
		return "", fmt.Errorf("render run script: %w", err)
	}
	return b.String(), nil
}
