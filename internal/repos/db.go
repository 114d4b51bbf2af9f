package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed reference data if DB is empty (products/orders/customer)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products (static catalog reference data)
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  original_price NUMERIC NOT NULL DEFAULT 0,
  rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  alt TEXT,
  protein TEXT,
  badge TEXT NOT NULL DEFAULT '',
  in_stock INTEGER NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  flavors_json TEXT NOT NULL DEFAULT '[]',
  dietary_json TEXT NOT NULL DEFAULT '[]',
  goals_json TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_brand    ON products(brand);

-- Past orders (immutable history)
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  order_date TEXT NOT NULL,          -- DD/MM/YYYY
  total NUMERIC NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('En préparation','Expédié','Livré')),
  tracking_number TEXT NOT NULL DEFAULT '',
  shipping_address TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  delivery_date TEXT NOT NULL DEFAULT '',
  can_return INTEGER NOT NULL DEFAULT 0,
  category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items(
  order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  id INTEGER NOT NULL,
  name TEXT NOT NULL,
  alt TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, id)
);

-- Per-session key-value slots; the serialized cart lives under key 'cart'.
CREATE TABLE IF NOT EXISTS session_kv(
  session_id TEXT NOT NULL,
  k TEXT NOT NULL,
  v TEXT NOT NULL,
  updated_at TEXT,
  PRIMARY KEY (session_id, k)
);

-- Demo customer profile and favorites for the account dashboard.
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  account_status TEXT NOT NULL,
  member_since TEXT NOT NULL,        -- DD/MM/YYYY
  loyalty_points INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS favorites(
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  created_at TEXT,
  PRIMARY KEY (customer_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting catalog, order history and demo customer")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products
	  (id,name,brand,category,price,original_price,rating,review_count,image,alt,protein,badge,in_stock,stock,flavors_json,dietary_json,goals_json) VALUES
	  (1,'Mass Gainer Pro 5000','Optimum Nutrition','Mass Gainers',49.99,64.99,4.5,328,
	   'https://images.unsplash.com/photo-1704650311190-7eeb9c4f6e11',
	   'White protein powder container with scoop on wooden surface surrounded by fitness equipment',
	   '50g de protéines','Bestseller',1,15,
	   '["Chocolat","Vanille","Fraise"]','["Sans gluten"]','["Prise de masse","Récupération"]'),
	  (2,'Whey Protein Isolate','MyProtein','Protéines',39.99,0,4.7,542,
	   'https://images.unsplash.com/photo-1693996045346-d0a9b9470909',
	   'Black protein powder tub with measuring scoop next to shaker bottle on gym floor',
	   '25g de protéines','',1,8,
	   '["Chocolat","Vanille","Banane","Fraise"]','["Sans lactose","Vegan"]','["Prise de masse","Définition musculaire"]'),
	  (3,'Serious Mass Gainer','BSN','Mass Gainers',54.99,69.99,4.3,215,
	   'https://images.unsplash.com/photo-1678875524413-20dcbded9c3f',
	   'Red and white protein supplement container with nutrition facts label visible on kitchen counter',
	   '60g de protéines','Nouveau',1,12,
	   '["Chocolat","Vanille"]','[]','["Prise de masse"]'),
	  (4,'Casein Protein Night','Dymatize','Protéines',44.99,0,4.6,189,
	   'https://images.unsplash.com/photo-1709976142410-9aae3b10e8bc',
	   'Blue protein powder container with silver scoop on dark wooden table with dumbbells',
	   '30g de protéines','',1,10,
	   '["Chocolat","Vanille","Cookies"]','["Sans gluten"]','["Récupération","Définition musculaire"]'),
	  (5,'BCAA Energy Boost','Scitec Nutrition','Suppléments',29.99,0,4.4,276,
	   'https://img.rocket.new/generatedImages/rocket_gen_img_17bd81526-1764801001232.png',
	   'Green supplement powder container with transparent lid showing powder texture on gym bench',
	   '5g de BCAA','',1,25,
	   '["Citron","Orange","Fruit punch"]','["Vegan","Sans gluten"]','["Récupération","Endurance"]'),
	  (6,'Pre-Workout Extreme','Cellucor','Suppléments',34.99,0,4.8,412,
	   'https://images.unsplash.com/photo-1701859077647-ab9540ea3816',
	   'Orange pre-workout supplement tub with black lid next to water bottle on gym equipment',
	   '200mg de caféine','Top rated',1,18,
	   '["Fruit punch","Citron vert"]','[]','["Endurance","Performance"]'),
	  (7,'Lean Mass Gainer','MuscleTech','Mass Gainers',52.99,0,4.2,167,
	   'https://images.unsplash.com/photo-1679389456075-79494e7808ff',
	   'Silver metallic protein container with red label on white background with fitness accessories',
	   '40g de protéines','',0,0,
	   '["Chocolat","Vanille","Fraise"]','["Sans gluten"]','["Prise de masse","Définition musculaire"]'),
	  (8,'Vegan Protein Blend','Garden of Life','Protéines',42.99,0,4.5,298,
	   'https://images.unsplash.com/photo-1610725664285-7c57e6eeac3f',
	   'White and green vegan protein powder container with plant-based ingredients illustration on label',
	   '20g de protéines','Vegan',1,14,
	   '["Chocolat","Vanille","Baies"]','["Vegan","Sans gluten","Sans lactose"]','["Prise de masse","Récupération"]'),
	  (9,'Creatine Monohydrate','Universal Nutrition','Suppléments',24.99,0,4.7,534,
	   'https://images.unsplash.com/photo-1693996045435-af7c48b9cafb',
	   'Black creatine supplement container with yellow label on gym floor next to weight plates',
	   '5g de créatine','',1,20,
	   '["Sans saveur"]','["Vegan"]','["Performance","Prise de masse"]'),
	  (10,'Hydrolyzed Whey','Optimum Nutrition','Protéines',59.99,74.99,4.6,223,
	   'https://images.unsplash.com/photo-1598300042247-d088f8ab3a91',
	   'Premium gold and black protein powder container with embossed logo on marble countertop',
	   '30g de protéines','Premium',1,6,
	   '["Chocolat","Vanille"]','["Sans lactose"]','["Récupération","Définition musculaire"]'),
	  (11,'Glutamine Recovery','BSN','Suppléments',27.99,0,4.3,145,
	   'https://img.rocket.new/generatedImages/rocket_gen_img_18775f950-1765759509324.png',
	   'White glutamine supplement powder container with blue accents on wooden gym bench',
	   '5g de glutamine','',1,16,
	   '["Sans saveur","Citron"]','["Vegan","Sans gluten"]','["Récupération"]'),
	  (12,'Weight Gainer 3000','Weider','Mass Gainers',46.99,0,4.4,187,
	   'https://images.unsplash.com/photo-1587374835402-bdfdeb2aa0c1',
	   'Large blue weight gainer container with nutrition information panel on gym equipment rack',
	   '45g de protéines','',1,9,
	   '["Chocolat","Vanille","Banane"]','[]','["Prise de masse"]')`)

	tx.MustExec(`INSERT INTO orders
	  (id,order_number,order_date,total,status,tracking_number,shipping_address,payment_method,delivery_date,can_return,category) VALUES
	  (1,'BF2026-001234','05/01/2026',127.85,'Livré','FR123456789',
	   'Jean Dupont' || char(10) || '15 Rue de la République' || char(10) || '75001 Paris' || char(10) || 'France',
	   'Carte bancaire •••• 4242','03/01/2026',1,'mass-gainers'),
	  (2,'BF2026-001189','28/12/2025',215.40,'Expédié','FR987654321',
	   'Marie Martin' || char(10) || '42 Avenue des Champs' || char(10) || '69002 Lyon' || char(10) || 'France',
	   'PayPal','08/01/2026',1,'proteins'),
	  (3,'BF2025-000987','15/12/2025',156.75,'Livré','',
	   'Pierre Dubois' || char(10) || '8 Boulevard Saint-Michel' || char(10) || '33000 Bordeaux' || char(10) || 'France',
	   'Carte bancaire •••• 1234','18/12/2025',0,'mass-gainers'),
	  (4,'BF2025-000856','02/12/2025',89.90,'Livré','',
	   'Sophie Laurent' || char(10) || '23 Rue Victor Hugo' || char(10) || '31000 Toulouse' || char(10) || 'France',
	   'Carte bancaire •••• 5678','05/12/2025',0,'proteins'),
	  (5,'BF2025-000723','18/11/2025',342.50,'En préparation','',
	   'Thomas Bernard' || char(10) || '56 Rue de la Paix' || char(10) || '59000 Lille' || char(10) || 'France',
	   'Carte bancaire •••• 9012','',1,'mass-gainers'),
	  (6,'BF2025-000654','05/11/2025',198.75,'Livré','',
	   'Claire Petit' || char(10) || '12 Avenue de la Liberté' || char(10) || '44000 Nantes' || char(10) || 'France',
	   'PayPal','08/11/2025',0,'proteins')`)

	tx.MustExec(`INSERT INTO order_items(order_id,id,name,alt,quantity,price) VALUES
	  (1,1,'Optimum Nutrition Serious Mass 5.4kg','White protein powder container with black label on wooden surface',1,89.90),
	  (1,2,'Shaker Premium 700ml','Black protein shaker bottle with measurement markings on gym floor',2,18.95),
	  (2,3,'Whey Protein Isolate 2kg Chocolat','Brown chocolate protein powder tub with silver lid on white background',2,99.90),
	  (2,4,'BCAA 8:1:1 - 300 gélules','White supplement bottle with blue cap containing BCAA capsules',1,15.60),
	  (3,5,'Mass Gainer Pro 3kg Vanille','Beige vanilla protein powder container with gold accents on marble counter',1,79.90),
	  (3,6,'Créatine Monohydrate 500g','Clear plastic jar filled with white creatine powder on gym bench',1,24.90),
	  (3,7,'Multivitamines Sport - 90 comprimés','Orange vitamin bottle with white label surrounded by colorful pills',2,25.95),
	  (4,8,'Whey Protein Concentrate 1kg Fraise','Pink strawberry protein powder container with red label on kitchen counter',1,49.90),
	  (4,9,'Barre protéinée Chocolat - Pack de 12','Stack of chocolate protein bars with brown wrapper on wooden table',1,39.90),
	  (5,10,'Pack Mass Gainer Premium 6kg','Large premium mass gainer pack on gym floor',1,189.90),
	  (5,11,'Pré-Workout Explosive 300g','Red pre-workout supplement container with lightning bolt design',2,76.30),
	  (6,12,'Isolate Whey 2.5kg Vanille','White vanilla protein powder tub with gold trim on marble surface',1,119.90),
	  (6,13,'Glutamine Pure 500g','Transparent container with white glutamine powder on black background',1,29.90),
	  (6,14,'Oméga-3 Fish Oil - 120 capsules','Blue omega-3 supplement bottle with yellow fish oil capsules',1,48.95)`)

	tx.MustExec(`INSERT INTO customers(id,name,account_status,member_since,loyalty_points) VALUES
	  ('c-sophie','Sophie Martin','Membre Premium','15/03/2024',2450)`)

	tx.MustExec(`INSERT INTO favorites(customer_id,product_id,created_at) VALUES
	  ('c-sophie',1,CURRENT_TIMESTAMP),
	  ('c-sophie',2,CURRENT_TIMESTAMP),
	  ('c-sophie',6,CURRENT_TIMESTAMP),
	  ('c-sophie',9,CURRENT_TIMESTAMP)`)

	return tx.Commit()
}
