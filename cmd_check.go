package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"skincheck_server/adapter/in/http"
	"skincheck_server/adapter/out/catalog"
	"skincheck_server/core/domain"
	"skincheck_server/core/service/analysis"
	"skincheck_server/core/service/ingredient"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	checkCatalog  string
	checkSkinType string
	checkProduct  string
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:     "check [ingredients]",
	Short:   "Analyse an ingredient list offline against a YAML catalog",
	Example: `  skincheck check --catalog testdata/catalog.yaml --skin-type oily "Water, Fragrance, Glycerin"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.Load(checkCatalog)
		if err != nil {
			return err
		}

		svc := analysis.NewService(analysis.Deps{
			Resolver: ingredient.NewResolver(store, nil),
		}, nil)

		result, err := svc.Analyze(context.Background(), &domain.AnalysisRequest{
			Ingredients: http.SplitIngredients(args[0]),
			SkinType:    domain.SkinType(checkSkinType),
			ProductName: checkProduct,
		})
		if err != nil {
			return err
		}

		if checkJSON {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		renderResult(cmd.OutOrStdout(), checkProduct, domain.SkinType(checkSkinType), result)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCatalog, "catalog", "catalog.yaml", "path to the YAML ingredient catalog")
	checkCmd.Flags().StringVar(&checkSkinType, "skin-type", "normal", "skin type to analyse for")
	checkCmd.Flags().StringVar(&checkProduct, "product", "", "product name shown in the report")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the raw result as JSON")
}

func renderResult(w io.Writer, product string, skin domain.SkinType, r *domain.AnalysisResult) {
	title := "Product"
	if product != "" {
		title = product
	}
	fmt.Fprintf(w, "%s %s\n", styleBanner.Render(title), styleDim.Render("("+string(skin.Normalize())+" skin)"))
	fmt.Fprintf(w, "Overall: %s  %s\n\n", renderVerdict(r.OverallVerdict),
		styleDim.Render(fmt.Sprintf("good=%d bad=%d rule=%s", r.GoodScore, r.BadScore, r.DecisionRule)))

	sections := []struct {
		name  string
		items []domain.ClassifiedIngredient
	}{
		{"Highly contributing", r.HighlyContributing},
		{"Moderate", r.ModerateIngredient},
		{"Least contributing", r.LeastContributing},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintln(w, styleHeader.Render(s.name))
		for _, item := range s.items {
			line := fmt.Sprintf("  %s %s", renderVerdict(item.Verdict), item.Name)
			if item.Tier == domain.TierUnresolved {
				line += " " + styleDim.Render("(not in catalog)")
			} else if item.SideEffect != "" {
				line += " " + styleDim.Render("- "+item.SideEffect)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.TrimSpace(r.OverallExplanation))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
