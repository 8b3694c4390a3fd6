package store

import (
	"context"
	"fmt"
	"strings"
)

const searchFoodsSQL = `
	SELECT
		fd.ndb_no,
		fd.long_desc,
		fd.shrt_desc,
		fg.fddrp_desc AS food_group
	FROM food_des fd
	JOIN fd_group fg ON fd.fdgrp_cd = fg.fdgrp_cd
	WHERE fd.long_desc ILIKE $1 OR fd.shrt_desc ILIKE $1
	ORDER BY fd.long_desc
	LIMIT $2;
`

const nutritionProfileSQL = `
	SELECT
		fd.long_desc,
		fd.shrt_desc,
		fg.fddrp_desc AS food_group,
		nd.nutrdesc,
		nd.units,
		n.nutr_val,
		nd.sr_order
	FROM food_des fd
	JOIN fd_group fg ON fd.fdgrp_cd = fg.fdgrp_cd
	JOIN nut_data n ON fd.ndb_no = n.ndb_no
	JOIN nutr_def nd ON n.nutr_no = nd.nutr_no
	WHERE fd.ndb_no = $1 AND n.nutr_val > 0
	ORDER BY nd.sr_order;
`

const foodsByCategorySQL = `
	SELECT
		fd.ndb_no,
		fd.long_desc,
		fd.shrt_desc
	FROM food_des fd
	JOIN fd_group fg ON fd.fdgrp_cd = fg.fdgrp_cd
	WHERE fg.fddrp_desc ILIKE $1
	ORDER BY fd.long_desc
	LIMIT $2;
`

const foodCategoriesSQL = `
	SELECT
		fg.fdgrp_cd,
		fg.fddrp_desc,
		COUNT(fd.ndb_no) AS food_count
	FROM fd_group fg
	LEFT JOIN food_des fd ON fg.fdgrp_cd = fd.fdgrp_cd
	GROUP BY fg.fdgrp_cd, fg.fddrp_desc
	ORDER BY food_count DESC;
`

const compareFoodsSQL = `
	SELECT
		fd.ndb_no,
		fd.long_desc,
		nd.nutrdesc,
		nd.units,
		n.nutr_val
	FROM food_des fd
	JOIN nut_data n ON fd.ndb_no = n.ndb_no
	JOIN nutr_def nd ON n.nutr_no = nd.nutr_no
	WHERE fd.ndb_no IN (%s)
	AND (%s)
	ORDER BY fd.long_desc, nd.sr_order;
`

const foodsHighInNutrientSQL = `
	SELECT
		fd.long_desc,
		fg.fddrp_desc AS food_group,
		nd.nutrdesc,
		nd.units,
		n.nutr_val
	FROM food_des fd
	JOIN fd_group fg ON fd.fdgrp_cd = fg.fdgrp_cd
	JOIN nut_data n ON fd.ndb_no = n.ndb_no
	JOIN nutr_def nd ON n.nutr_no = nd.nutr_no
	WHERE nd.nutrdesc ILIKE $1 AND n.nutr_val > 0
	ORDER BY n.nutr_val DESC
	LIMIT $2;
`

// defaultCompareNutrients is the nutrient set compared when the caller
// names none.
var defaultCompareNutrients = []string{
	"Energy",
	"Protein",
	"Total lipid (fat)",
	"Carbohydrate, by difference",
}

// SearchFoods matches keyword case-insensitively against the long or short
// description, joined with the food group for a category label.
func (s *Store) SearchFoods(ctx context.Context, keyword string, limit int) ([]Row, error) {
	return s.query(ctx, searchFoodsSQL, "%"+keyword+"%", limit)
}

// NutritionProfile returns all positive nutrient values for one food,
// ordered by the nutrient display order. The caller distinguishes an empty
// result from an error.
func (s *Store) NutritionProfile(ctx context.Context, ndbNo string) ([]Row, error) {
	return s.query(ctx, nutritionProfileSQL, ndbNo)
}

// FoodsByCategory matches category case-insensitively against the food
// group description.
func (s *Store) FoodsByCategory(ctx context.Context, category string, limit int) ([]Row, error) {
	return s.query(ctx, foodsByCategorySQL, "%"+category+"%", limit)
}

// FoodCategories returns every food group with a count of associated
// foods. Groups with no foods are included with a count of zero.
func (s *Store) FoodCategories(ctx context.Context) ([]Row, error) {
	return s.query(ctx, foodCategoriesSQL)
}

// CompareFoods returns nutrient values for multiple foods restricted to a
// named nutrient set. Nutrients defaults to the key macronutrients when
// empty. An empty ndbNos list is rejected outright rather than emitting a
// malformed empty IN clause.
func (s *Store) CompareFoods(ctx context.Context, ndbNos, nutrients []string) ([]Row, error) {
	sql, args, err := compareFoodsQuery(ndbNos, nutrients)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, sql, args...)
}

// compareFoodsQuery builds the IN (...) placeholder list and the OR-chain
// of nutrient equality checks together with the argument list, so the
// placeholder indices and arguments cannot drift apart.
func compareFoodsQuery(ndbNos, nutrients []string) (string, []any, error) {
	if len(ndbNos) == 0 {
		return "", nil, fmt.Errorf("ndb_numbers must not be empty")
	}
	if len(nutrients) == 0 {
		nutrients = defaultCompareNutrients
	}

	args := make([]any, 0, len(ndbNos)+len(nutrients))

	placeholders := make([]string, len(ndbNos))
	for i, no := range ndbNos {
		args = append(args, no)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	conditions := make([]string, len(nutrients))
	for i, nutrient := range nutrients {
		args = append(args, nutrient)
		conditions[i] = fmt.Sprintf("nd.nutrdesc = $%d", len(args))
	}

	sql := fmt.Sprintf(compareFoodsSQL,
		strings.Join(placeholders, ","),
		strings.Join(conditions, " OR "),
	)
	return sql, args, nil
}

// FoodsHighInNutrient returns the foods with the highest positive values
// of a nutrient matched case-insensitively by name.
func (s *Store) FoodsHighInNutrient(ctx context.Context, nutrient string, limit int) ([]Row, error) {
	return s.query(ctx, foodsHighInNutrientSQL, "%"+nutrient+"%", limit)
}
